package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/informatika-uin-malang/ragchat/client"
	"github.com/informatika-uin-malang/ragchat/models"
)

type HealthCommand struct {
	ServerURL string        `help:"The URL of the chat API." env:"RAGCHAT_SERVER_URL" default:"http://localhost:8000"`
	Timeout   time.Duration `help:"How long to wait for a response." env:"HEALTH_TIMEOUT" default:"5s"`
}

func (c HealthCommand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	resp, err := client.New(c.ServerURL, "").HealthGet(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return printHealth(os.Stdout, resp)
}

func printHealth(w io.Writer, resp models.HealthGetResponse) error {
	if resp.Status != models.HealthStatusOK {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	_, err := fmt.Fprintf(w, "%s %s\n", resp.Status, time.Unix(resp.TS, 0).UTC().Format(time.RFC3339))
	return err
}
