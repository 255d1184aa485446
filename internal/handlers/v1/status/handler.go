package status

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/carson-networks/banking-view/internal/logging"
)

// Pinger reports whether the record store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Handler struct {
	DB Pinger
}

func NewHandler(db Pinger) Handler {
	return Handler{DB: db}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != http.MethodGet {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		stopTimer := logData.AddTiming("pingMs")
		err := h.DB.PingContext(ctx)
		stopTimer()
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return err
		}
	}

	w.WriteHeader(http.StatusOK)
	return nil
}
