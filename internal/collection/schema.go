package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

const savedGameSchemaJSON = `{
  "type": "object",
  "required": ["id", "title", "slug", "addedAt"],
  "properties": {
    "id":               {"type": "string", "minLength": 1},
    "title":            {"type": "string"},
    "slug":             {"type": "string"},
    "imageUrl":         {"type": "string"},
    "imageId":          {"type": "string"},
    "addedAt":          {"type": "string", "minLength": 1},
    "releaseDate":      {"type": "string"},
    "firstReleaseDate": {"type": ["integer", "null"]}
  }
}`

var errNotArray = errors.New("stored collection is not a JSON array")

var savedGameSchema = mustSchema(savedGameSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("saved game schema: %v", err))
	}
	return schema
}

// decoder parses the stored list, dropping entries that fail validation and
// keeping the first occurrence of a duplicated id.
func decoder(logger *slog.Logger) func(string) ([]domaingames.SavedGame, error) {
	return func(raw string) ([]domaingames.SavedGame, error) {
		var items []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			return nil, fmt.Errorf("%w: %v", errNotArray, err)
		}
		if items == nil {
			return nil, errNotArray
		}

		out := make([]domaingames.SavedGame, 0, len(items))
		seen := make(map[string]struct{}, len(items))
		for i, item := range items {
			if reason := validate(item); reason != "" {
				logging.Warn(logger, "dropping invalid saved game", "index", i, "reason", reason)
				continue
			}
			var g domaingames.SavedGame
			if err := json.Unmarshal(item, &g); err != nil {
				logging.Warn(logger, "dropping invalid saved game", "index", i, "err", err)
				continue
			}
			if _, dup := seen[g.ID]; dup {
				logging.Warn(logger, "dropping duplicate saved game", logging.FieldGameID, g.ID)
				continue
			}
			seen[g.ID] = struct{}{}
			out = append(out, g)
		}
		return out, nil
	}
}

func validate(item json.RawMessage) string {
	res, err := savedGameSchema.Validate(gojsonschema.NewBytesLoader(item))
	if err != nil {
		return err.Error()
	}
	if res.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
