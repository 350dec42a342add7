package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/informatika-uin-malang/ragchat/auth"
	chatpost "github.com/informatika-uin-malang/ragchat/handlers/chat/post"
	healthget "github.com/informatika-uin-malang/ragchat/handlers/health/get"
	"github.com/informatika-uin-malang/ragchat/requestlog"
	"github.com/rs/cors"
)

type ServeCommand struct {
	ListenAddr      string        `help:"The address to listen on." env:"LISTEN_ADDR" default:"localhost:8000"`
	TLSCertFile     string        `help:"The TLS certificate file." env:"TLS_CERT_FILE" default:""`
	TLSKeyFile      string        `help:"The TLS key file." env:"TLS_KEY_FILE" default:""`
	APIKeysFile     string        `help:"The file containing a JSON map of API keys to usernames. Chat requests are not authenticated if empty." env:"API_KEYS_FILE" default:""`
	ShutdownTimeout time.Duration `help:"How long to wait for in-flight requests on shutdown." env:"SHUTDOWN_TIMEOUT" default:"10s"`
	LogLevel        string        `help:"The log level to use." env:"LOG_LEVEL" default:"info" enum:"debug,info,warn,error"`
	LogFormat       string        `help:"The log format to use." env:"LOG_FORMAT" default:"json" enum:"json,text"`
}

// newHandler wires the API routes. A nil apiKeyToUserName leaves the chat
// endpoint open. Health checks are never authenticated.
func newHandler(log *slog.Logger, apiKeyToUserName map[string]string, now func() time.Time) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /api/health", healthget.New(log, now))

	var chat http.Handler = chatpost.New(log)
	if apiKeyToUserName != nil {
		chat = auth.New(apiKeyToUserName, chat)
	}
	mux.Handle("POST /api/chat", chat)

	// Allow all origins so the browser UI can be opened from file:// or any
	// local dev server. Narrow this before exposing the API publicly.
	withCORS := cors.AllowAll().Handler(mux)

	return requestlog.New(log, withCORS)
}

func (c ServeCommand) Run(ctx context.Context) (err error) {
	log := getLogger(c.LogLevel, c.LogFormat)

	var apiKeyToUserName map[string]string
	if c.APIKeysFile != "" {
		apiKeyToUserName, err = auth.LoadFromFile(c.APIKeysFile)
		if err != nil {
			return fmt.Errorf("failed to load API keys: %w", err)
		}
		log.Info("API key authentication enabled", slog.Int("keys", len(apiKeyToUserName)))
	}

	s := &http.Server{
		Addr:              c.ListenAddr,
		Handler:           newHandler(log, apiKeyToUserName, time.Now),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info("Listening", slog.String("addr", c.ListenAddr))
		if c.TLSCertFile != "" && c.TLSKeyFile != "" {
			log.Info("Enabling TLS mode")
			cert, err := tls.LoadX509KeyPair(c.TLSCertFile, c.TLSKeyFile)
			if err != nil {
				errs <- fmt.Errorf("failed to load cert: %w", err)
				return
			}
			s.TLSConfig = &tls.Config{
				MinVersion:   tls.VersionTLS12,
				Certificates: []tls.Certificate{cert},
			}
			errs <- s.ListenAndServeTLS("", "")
			return
		}
		errs <- s.ListenAndServe()
	}()

	select {
	case err = <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down", slog.Duration("timeout", c.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	if err = s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
