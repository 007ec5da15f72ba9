package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hostwin/internal/app"
	"hostwin/internal/options"
	"hostwin/internal/platform"
	"hostwin/internal/platform/backend"
)

func main() {
	optsPath := flag.String("options", options.DefaultFilename, "path to the options file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "hostwin: %v\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	opts, err := options.Load(*optsPath)
	if err != nil {
		log.Warn("options not loaded, using defaults", "path", *optsPath, "error", err)
		opts = options.New()
	}

	ctx := platform.NewContext(log, opts)
	application := app.New(ctx, backend.New(ctx), *optsPath)
	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "hostwin failed: %v\n", err)
		os.Exit(1)
	}
}
