package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const heartbeatInterval = 25 * time.Second

// stream pushes every subsequent activity creation to the client as
// server-sent events, one "activity" event per creation, in creation
// order. The channel ends on client disconnect or when the hub evicts
// the subscriber for not keeping up.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming_unsupported", "response writer does not support streaming")
		return
	}

	sub := h.svc.Subscribe()
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Flush an initial comment so the client knows the subscription
	// is registered before any createActivity it triggers next.
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case a, open := <-sub.Events():
			if !open {
				// Evicted by the hub; the client may reconnect.
				slog.Debug("sse subscriber evicted", "remote", r.RemoteAddr)
				return
			}
			data, err := json.Marshal(a)
			if err != nil {
				slog.Warn("encoding sse event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: activity\ndata: %s\n\n", data)
			flusher.Flush()

		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
