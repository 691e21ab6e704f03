package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	cuttlemcp "github.com/peterkuimelis/cuttle/internal/mcp"
	"github.com/peterkuimelis/cuttle/internal/session"
)

func main() {
	store := session.NewStore(session.StoreOptions{})

	s := server.NewMCPServer("cuttle", "1.0.0")
	cuttlemcp.NewService(store).Register(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
