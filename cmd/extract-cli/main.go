// extract-cli runs a single meter reading extraction from the command line.
//
// Usage:
//
//	extract-cli -file 19112024101437.jpg [-config relay.yml]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"meterocr/internal/config"
	"meterocr/internal/logging"
	"meterocr/internal/server"
	"meterocr/internal/server/service"
	"meterocr/pkg"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML config file (overrides environment)")
	fileName := flag.String("file", "", "image file name under the upload prefix")
	flag.Parse()

	if *fileName == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	svc := service.NewExtractService(server.NewOCRClient(cfg), cfg.UploadPrefix, log)
	result, err := svc.Extract(context.Background(), *fileName)
	if err != nil {
		return err
	}
	return pkg.Print(os.Stdout, result)
}
