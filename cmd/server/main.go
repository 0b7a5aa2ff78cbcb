package main

import (
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"

	"fsgate/internal/app"
	"fsgate/internal/logger"
)

func main() {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	// Colored output for terminals, plain JSON lines for everything else.
	var logHandler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		logHandler = logger.NewPrettyHandler(os.Stdout, opts)
	} else {
		logHandler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(logHandler))

	application, err := app.New()
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
