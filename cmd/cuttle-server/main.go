package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/peterkuimelis/cuttle/internal/server"
	"github.com/peterkuimelis/cuttle/internal/session"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	flag.Parse()

	store := session.NewStore(session.StoreOptions{})
	srv := server.NewServer(store)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("cuttle API listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
