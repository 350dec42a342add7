package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/informatika-uin-malang/ragchat/models"
)

func TestHandlerRoutes(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return time.Unix(1723888800, 0) }

	tests := []struct {
		name           string
		apiKeys        map[string]string
		req            func() *http.Request
		expectedStatus int
		expectedHeader map[string]string
	}{
		{
			name:           "health check returns 200",
			req:            func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/health", nil) },
			expectedStatus: http.StatusOK,
		},
		{
			name: "chat returns 200",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"X"}`))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "chat without a query returns 422",
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{}`))
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "GET on the chat endpoint is not allowed",
			req:            func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/chat", nil) },
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "POST on the health endpoint is not allowed",
			req:            func() *http.Request { return httptest.NewRequest(http.MethodPost, "/api/health", nil) },
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unknown paths return 404",
			req:            func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/history", nil) },
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "CORS preflight from any origin is allowed",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
				req.Header.Set("Origin", "http://127.0.0.1:5500")
				req.Header.Set("Access-Control-Request-Method", http.MethodPost)
				req.Header.Set("Access-Control-Request-Headers", "Content-Type")
				return req
			},
			expectedStatus: http.StatusNoContent,
			expectedHeader: map[string]string{"Access-Control-Allow-Origin": "*"},
		},
		{
			name: "cross-origin chat responses carry CORS headers",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"X"}`))
				req.Header.Set("Origin", "null")
				return req
			},
			expectedStatus: http.StatusOK,
			expectedHeader: map[string]string{"Access-Control-Allow-Origin": "*"},
		},
		{
			name: "request IDs are echoed",
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
				req.Header.Set("X-Request-ID", "req-1")
				return req
			},
			expectedStatus: http.StatusOK,
			expectedHeader: map[string]string{"X-Request-ID": "req-1"},
		},
		{
			name:    "chat requires an API key when keys are configured",
			apiKeys: map[string]string{"key-1": "user-1"},
			req: func() *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"X"}`))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:    "chat accepts a configured API key",
			apiKeys: map[string]string{"key-1": "user-1"},
			req: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"X"}`))
				req.Header.Set("Authorization", "Bearer key-1")
				return req
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "health checks never require an API key",
			apiKeys:        map[string]string{"key-1": "user-1"},
			req:            func() *http.Request { return httptest.NewRequest(http.MethodGet, "/api/health", nil) },
			expectedStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(log, tt.apiKeys, now)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, tt.req())
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			for k, v := range tt.expectedHeader {
				if actual := w.Header().Get(k); actual != v {
					t.Errorf("expected header %s to be %q, got %q", k, v, actual)
				}
			}
		})
	}
}

func TestHandlerHealthBody(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := newHandler(log, nil, func() time.Time { return time.Unix(1723888800, 0) })
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	var resp models.HealthGetResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "ok" || resp.TS != 1723888800 {
		t.Errorf("unexpected response %+v", resp)
	}
}
