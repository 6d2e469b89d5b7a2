package http

import (
	nethttp "net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/preston-bernstein/gaming-haven/internal/http/handlers"
)

// Routes groups the handlers mounted by NewRouter. Admin and Socket are optional.
type Routes struct {
	API    *handlers.Handler
	Admin  *handlers.AdminHandler
	Socket *handlers.SearchSocket
}

// NewRouter registers the HTTP routes.
func NewRouter(rt Routes) nethttp.Handler {
	router := httprouter.New()
	h := rt.API

	router.HandlerFunc(nethttp.MethodGet, "/health", h.Health)
	router.HandlerFunc(nethttp.MethodGet, "/ready", h.Ready)

	router.HandlerFunc(nethttp.MethodGet, "/api/search", h.Search)
	router.HandlerFunc(nethttp.MethodGet, "/api/popular", h.Popular)

	router.HandlerFunc(nethttp.MethodGet, "/api/saved", h.ListSaved)
	router.HandlerFunc(nethttp.MethodPost, "/api/saved", h.AddSaved)
	router.HandlerFunc(nethttp.MethodDelete, "/api/saved", h.ClearSaved)
	router.HandlerFunc(nethttp.MethodGet, "/api/saved/:id", h.GetSaved)
	router.HandlerFunc(nethttp.MethodDelete, "/api/saved/:id", h.RemoveSaved)

	if rt.Admin != nil {
		router.HandlerFunc(nethttp.MethodPost, "/admin/backup", rt.Admin.Backup)
	}
	if rt.Socket != nil {
		router.Handler(nethttp.MethodGet, "/ws/search", rt.Socket)
	}

	router.NotFound = nethttp.HandlerFunc(h.NotFound)
	router.MethodNotAllowed = nethttp.HandlerFunc(h.MethodNotAllowed)
	return router
}
