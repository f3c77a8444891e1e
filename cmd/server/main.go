package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/berckan/domainscout/internal/config"
	"github.com/berckan/domainscout/internal/handlers"
	"github.com/berckan/domainscout/internal/tldrules"
)

func main() {
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	cfg, err := config.Load(os.Getenv("DOMAINSCOUT_CONFIG"))
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	table, err := tldrules.Load(cfg.TLDFile)
	if err != nil {
		log.Fatalf("tld rules: %v", err)
	}

	h := handlers.New(cfg, table)

	log.Printf("Server starting on http://localhost:%s (%d known TLDs)", port, table.Len())
	if err := http.ListenAndServe(":"+port, h.Router()); err != nil {
		log.Fatal(err)
	}
}
