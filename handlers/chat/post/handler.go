package post

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/a-h/respond"
	"github.com/informatika-uin-malang/ragchat/auth"
	"github.com/informatika-uin-malang/ragchat/models"
	"github.com/informatika-uin-malang/ragchat/requestlog"
)

// LatencyMS is reported in every response until answers are generated by a
// real retriever and reader.
const LatencyMS = 1234

// Sources returns the citations attached to every mock answer. Each call
// returns a new slice.
func Sources() []models.Source {
	return []models.Source{
		{
			Title:   "Website Prodi TI",
			URL:     "https://informatika.uin-malang.ac.id",
			Snippet: "Profil Prodi TI UIN Malang...",
		},
	}
}

const answerTemplate = "(Mock) Saya menerima pertanyaan: '%s'. Pipeline RAG menyusul."

// Answer returns the mock answer for a query.
func Answer(query string) string {
	return fmt.Sprintf(answerTemplate, query)
}

func New(log *slog.Logger) Handler {
	return Handler{
		log: log,
	}
}

type Handler struct {
	log *slog.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req, verr := decodeRequest(r.Body)
	if verr != nil {
		h.log.Warn("invalid chat request",
			slog.String("requestId", requestlog.GetID(r)),
			slog.Any("loc", verr.Loc),
			slog.String("type", verr.Type))
		respond.WithJSON(w, models.ValidationErrorResponse{
			Detail: []models.ValidationError{*verr},
		}, http.StatusUnprocessableEntity)
		return
	}

	attrs := []any{
		slog.String("requestId", requestlog.GetID(r)),
		slog.Int("queryLength", len(req.Query)),
	}
	if user, ok := auth.GetUser(r); ok {
		attrs = append(attrs, slog.String("user", user))
	}
	//TODO: Replace the mock with the retriever -> reader pipeline and measure latency.
	h.log.Debug("answering with mock", attrs...)

	respond.WithJSON(w, models.ChatPostResponse{
		Answer:  Answer(req.Query),
		Sources: Sources(),
		Usage: models.Usage{
			LatencyMS: LatencyMS,
		},
	}, http.StatusOK)
}

var jsonNull = []byte("null")

// decodeRequest reads a models.ChatPostRequest from r. The whole body must be
// a single JSON value, the query field must be present and must be a JSON
// string. Anything else is reported as a validation error.
func decodeRequest(r io.Reader) (req models.ChatPostRequest, verr *models.ValidationError) {
	var body map[string]json.RawMessage
	data, err := io.ReadAll(r)
	if err == nil {
		err = json.Unmarshal(data, &body)
	}
	if err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return req, &models.ValidationError{
				Loc:  []string{"body"},
				Msg:  "Input should be a valid dictionary or object to extract fields from",
				Type: models.ValidationErrorTypeObject,
			}
		}
		return req, &models.ValidationError{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: models.ValidationErrorTypeJSONInvalid,
		}
	}
	query, ok := body["query"]
	if !ok {
		return req, &models.ValidationError{
			Loc:  []string{"body", "query"},
			Msg:  "Field required",
			Type: models.ValidationErrorTypeMissing,
		}
	}
	// Unmarshalling null into a string is a no-op, so it has to be rejected
	// explicitly.
	if bytes.Equal(bytes.TrimSpace(query), jsonNull) || json.Unmarshal(query, &req.Query) != nil {
		return req, &models.ValidationError{
			Loc:  []string{"body", "query"},
			Msg:  "Input should be a valid string",
			Type: models.ValidationErrorTypeString,
		}
	}
	return req, nil
}
