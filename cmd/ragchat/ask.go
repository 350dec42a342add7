package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/informatika-uin-malang/ragchat/client"
	"github.com/informatika-uin-malang/ragchat/models"
	"gopkg.in/yaml.v3"
)

type AskCommand struct {
	ServerURL    string `help:"The URL of the chat API." env:"RAGCHAT_SERVER_URL" default:"http://localhost:8000"`
	ServerAPIKey string `help:"The API key for the chat API." env:"RAGCHAT_SERVER_API_KEY" default:""`
	Query        string `arg:"" help:"The query to send."`
	Output       string `help:"The output format." default:"json" enum:"json,yaml"`
	Pretty       bool   `help:"Pretty print the JSON output." default:"true" negatable:""`
}

func (c AskCommand) Run(ctx context.Context) (err error) {
	rsc := client.New(c.ServerURL, c.ServerAPIKey)
	resp, err := rsc.ChatPost(ctx, models.ChatPostRequest{
		Query: c.Query,
	})
	if err != nil {
		return fmt.Errorf("failed to post query: %w", err)
	}
	return writeResponse(os.Stdout, resp, c.Output, c.Pretty)
}

func writeResponse(w io.Writer, v any, output string, pretty bool) (err error) {
	switch output {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	case "json", "":
		enc := json.NewEncoder(w)
		if pretty {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown output format %q", output)
}
