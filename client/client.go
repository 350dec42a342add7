package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/a-h/jsonapi"
	"github.com/informatika-uin-malang/ragchat/models"
)

// New creates a client for the server at baseURL. The apiKey is sent in the
// Authorization header and may be empty when the server has auth disabled.
func New(baseURL, apiKey string) Client {
	return Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
	}
}

type Client struct {
	baseURL string
	apiKey  string
}

func (c Client) ChatPost(ctx context.Context, req models.ChatPostRequest) (resp models.ChatPostResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("api", "chat").String()
	if err != nil {
		return resp, err
	}
	return jsonapi.Post[models.ChatPostRequest, models.ChatPostResponse](ctx, url, req, jsonapi.WithRequestHeader("Authorization", c.apiKey))
}

// ErrNotFound is returned when the server has no route for the endpoint.
var ErrNotFound = errors.New("client: endpoint not found")

func (c Client) HealthGet(ctx context.Context) (resp models.HealthGetResponse, err error) {
	url, err := jsonapi.URL(c.baseURL).Path("api", "health").String()
	if err != nil {
		return resp, err
	}
	resp, ok, err := jsonapi.Get[models.HealthGetResponse](ctx, url, jsonapi.WithRequestHeader("Authorization", c.apiKey))
	if err != nil {
		return resp, err
	}
	if !ok {
		return resp, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return resp, nil
}
