package main

import (
	"context"
	"fmt"
	"os"

	"github.com/preston-bernstein/gaming-haven/internal/cli"
)

var appVersion = "dev"

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	if err := cli.Execute(context.Background(), appVersion, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "haven:", err)
		os.Exit(1)
	}
}
