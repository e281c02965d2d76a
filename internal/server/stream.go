package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ayusman/punchmoji/internal/capture"
)

// StreamInterval is the MJPEG frame period, about 15 FPS.
const StreamInterval = 66 * time.Millisecond

// FrameSource provides the latest mirrored camera frame.
type FrameSource interface {
	Frame() (*capture.Frame, bool)
}

// StreamHandler serves MJPEG frames from the detection task's frame mailbox.
// It never touches the camera itself.
type StreamHandler struct {
	source   FrameSource
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler reading from source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source, interval: StreamInterval}
}

// ServeHTTP streams MJPEG frames to connected clients.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last *capture.Frame
	for {
		frame, ok := h.source.Frame()
		if ok && frame != last {
			buf, err := capture.EncodeJPEG(frame)
			if err == nil {
				// Write MJPEG frame
				fmt.Fprintf(w, "--frame\r\n")
				fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
				fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(buf))
				if _, err := w.Write(buf); err != nil {
					return
				}
				fmt.Fprintf(w, "\r\n")

				if f, ok := w.(http.Flusher); ok {
					f.Flush()
				}
			}
			last = frame
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}
