package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	charmlog "github.com/charmbracelet/log"
	_ "github.com/joho/godotenv/autoload"
)

type CLI struct {
	Serve   ServeCommand   `cmd:"serve" help:"Start the chat API server."`
	Ask     AskCommand     `cmd:"ask" help:"Send a single query to the chat API and print the response."`
	Health  HealthCommand  `cmd:"health" help:"Check that the chat API is up."`
	Chat    ChatCommand    `cmd:"chat" help:"Chat with the API in the terminal."`
	Version VersionCommand `cmd:"version" help:"Print the version of ragchat."`
}

func main() {
	var cli CLI
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	kctx := kong.Parse(&cli,
		kong.Name("ragchat"),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)))
	if err := kctx.Run(); err != nil {
		log := getLogger("error", "json")
		log.Error("error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}
}

func getLogger(level, format string) *slog.Logger {
	ll := slog.LevelInfo
	switch level {
	case "debug":
		ll = slog.LevelDebug
	case "info":
		ll = slog.LevelInfo
	case "warn":
		ll = slog.LevelWarn
	case "error":
		ll = slog.LevelError
	}
	if format == "text" {
		return slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
			Level:           charmlog.Level(ll),
			ReportTimestamp: true,
		}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: ll,
	}))
}
