package http

import (
	"fmt"
	"net/http"

	"github.com/sgb-io/back-of-the-neural-net/internal/domain/event"
)

// handleEventStream replays the log from ?from= as server-sent events, then
// follows the live feed until the client disconnects.
func (s *Server) handleEventStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	after := uint64(queryInt(r, "from", 0))

	// Subscribe before replay so nothing appended mid-replay is lost;
	// duplicates are filtered by sequence below.
	live, cancel := s.orch.Subscribe()
	defer cancel()

	write := func(evt event.Event) bool {
		if evt.Seq <= after {
			return true
		}
		after = evt.Seq
		if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n",
			evt.Seq, evt.Kind, evt.PayloadJSON); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	// Historical replay.
	for {
		events, err := s.orch.EventsFrom(r.Context(), after, 500)
		if err != nil {
			return
		}
		if len(events) == 0 {
			break
		}
		for _, evt := range events {
			if !write(evt) {
				return
			}
		}
	}

	// Live tail.
	for {
		select {
		case <-r.Context().Done():
			return
		case evt, ok := <-live:
			if !ok {
				return
			}
			if !write(evt) {
				return
			}
		}
	}
}
