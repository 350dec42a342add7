package requestlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/segmentio/ksuid"
)

func TestMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		requestID      string
		status         int
		expectedStatus int
		expectedLevel  string
	}{
		{
			name:           "a request ID is generated when none is provided",
			status:         http.StatusOK,
			expectedStatus: http.StatusOK,
			expectedLevel:  "INFO",
		},
		{
			name:           "the caller's request ID is kept",
			requestID:      "abc-123",
			status:         http.StatusUnprocessableEntity,
			expectedStatus: http.StatusUnprocessableEntity,
			expectedLevel:  "INFO",
		},
		{
			name:           "server errors are logged at error level",
			status:         http.StatusInternalServerError,
			expectedStatus: http.StatusInternalServerError,
			expectedLevel:  "ERROR",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			log := slog.New(slog.NewJSONHandler(buf, nil))

			var idInHandler string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				idInHandler = GetID(r)
				w.WriteHeader(tt.status)
				w.Write([]byte("body"))
			})

			r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
			if tt.requestID != "" {
				r.Header.Set(HeaderName, tt.requestID)
			}
			w := httptest.NewRecorder()
			New(log, next).ServeHTTP(w, r)

			id := w.Header().Get(HeaderName)
			if id != idInHandler {
				t.Errorf("expected header ID %q to match handler ID %q", id, idInHandler)
			}
			if tt.requestID != "" && id != tt.requestID {
				t.Errorf("expected request ID %q, got %q", tt.requestID, id)
			}
			if tt.requestID == "" {
				if _, err := ksuid.Parse(id); err != nil {
					t.Errorf("expected a KSUID, got %q: %v", id, err)
				}
			}

			var entry struct {
				Level     string `json:"level"`
				Msg       string `json:"msg"`
				RequestID string `json:"requestId"`
				Method    string `json:"method"`
				Path      string `json:"path"`
				Status    int    `json:"status"`
				Bytes     int64  `json:"bytes"`
			}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log entry %q: %v", buf.String(), err)
			}
			if entry.Level != tt.expectedLevel {
				t.Errorf("expected level %s, got %s", tt.expectedLevel, entry.Level)
			}
			if entry.Status != tt.expectedStatus {
				t.Errorf("expected logged status %d, got %d", tt.expectedStatus, entry.Status)
			}
			if entry.RequestID != id {
				t.Errorf("expected logged request ID %q, got %q", id, entry.RequestID)
			}
			if entry.Method != http.MethodGet || entry.Path != "/api/health" {
				t.Errorf("unexpected method/path %s %s", entry.Method, entry.Path)
			}
			if entry.Bytes != 4 {
				t.Errorf("expected 4 bytes, got %d", entry.Bytes)
			}
		})
	}
}

func TestGetIDWithoutMiddleware(t *testing.T) {
	if id := GetID(httptest.NewRequest(http.MethodGet, "/", nil)); id != "" {
		t.Errorf("expected empty ID, got %q", id)
	}
}
