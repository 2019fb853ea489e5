package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/langaas500/Hvemistua/pkg/realtime"
)

const keepAliveInterval = 25 * time.Second

// stream pushes the snapshot as an SSE event whenever the session changes.
// Polling GET /api/state remains the baseline; this only shortens latency.
func (h *API) stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	hub := h.live.Broadcaster()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	send := func(event string) {
		b, err := json.Marshal(h.live.Session().Snapshot(h.now()))
		if err != nil {
			return
		}
		writeSSE(w, event, string(b))
		flusher.Flush()
	}

	send(realtime.EventState)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, open := <-sub:
			if !open {
				return
			}
			send(event)
		case <-keepAlive.C:
			_, _ = w.Write([]byte(": keepalive\n\n"))
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data string) {
	_, _ = w.Write([]byte("event: " + event + "\n"))
	for _, line := range strings.Split(data, "\n") {
		_, _ = w.Write([]byte("data: " + line + "\n"))
	}
	_, _ = w.Write([]byte("\n"))
}
