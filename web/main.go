package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-stratified-raytracer/pkg/config"
	"github.com/df07/go-stratified-raytracer/web/server"
)

func main() {
	envFile := flag.String("env", ".env", "Environment file to load before reading RAYTRACER_* variables")
	addr := flag.String("addr", "", "Address to serve on (overrides RAYTRACER_ADDR)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}

	webServer := server.NewServer(cfg)

	log.Printf("Stratified Raytracer Web Server")
	log.Printf("Visit http://localhost%s to start rendering", cfg.Addr)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
