package get

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/a-h/respond"
	"github.com/informatika-uin-malang/ragchat/models"
)

func New(log *slog.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{
		log: log,
		now: now,
	}
}

type Handler struct {
	log *slog.Logger
	now func() time.Time
	// last is the most recent timestamp returned, so that a wall clock that
	// steps backwards never produces a lower ts.
	last atomic.Int64
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	respond.WithJSON(w, models.HealthGetResponse{
		Status: models.HealthStatusOK,
		TS:     h.timestamp(),
	}, http.StatusOK)
}

func (h *Handler) timestamp() int64 {
	ts := max(h.now().Unix(), 0)
	for {
		last := h.last.Load()
		if ts <= last {
			if ts < last {
				h.log.Debug("clock moved backwards", slog.Int64("now", ts), slog.Int64("last", last))
			}
			return last
		}
		if h.last.CompareAndSwap(last, ts) {
			return ts
		}
	}
}
