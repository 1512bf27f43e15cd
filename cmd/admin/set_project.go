package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/vietddude/beacon/internal/control"
	"github.com/vietddude/beacon/internal/core/config"
	"github.com/vietddude/beacon/internal/core/domain"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	name := flag.String("name", "", "Project name to store")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "-name is required")
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	writer, closeFn, err := control.OpenSettingsWriter(ctx, control.ConfigFrom(cfg))
	if err != nil {
		panic(err)
	}
	defer closeFn()

	if err := writer.Save(ctx, domain.Settings{ProjectName: *name}); err != nil {
		panic(err)
	}

	fmt.Printf("Successfully set project name to %q in %s store\n", *name, cfg.Settings.Source)
}
