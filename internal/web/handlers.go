package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cjeanneret/HexPad/internal/debug"
	"github.com/cjeanneret/HexPad/internal/logic/remote"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Remote is the part of the controller the web page drives.
type Remote interface {
	Snapshot() remote.Snapshot
	SetBrightness(b int)
	RequestFullRedraw()
}

// Toucher is a software touch source.
type Toucher interface {
	Press(x, y int)
	Release()
}

// Screen renders the current display contents as PNG.
type Screen interface {
	WritePNG(w io.Writer) error
}

// PageConfig describes the remote's page for the browser.
type PageConfig struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// TouchRequest is a virtual touch sent by the browser.
type TouchRequest struct {
	Action string `json:"action"` // "press" or "release"
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// BrightnessRequest sets the backlight level, 0 (full) to 255 (off).
type BrightnessRequest struct {
	Brightness int `json:"brightness"`
}

// ValidateTouch checks a touch request against the page size.
func ValidateTouch(t TouchRequest, page PageConfig) error {
	switch t.Action {
	case "release":
		return nil
	case "press":
	default:
		return fmt.Errorf("action must be \"press\" or \"release\", got %q", t.Action)
	}
	if t.X < 0 || t.X >= page.Width {
		return fmt.Errorf("x must be between 0 and %d", page.Width-1)
	}
	if t.Y < 0 || t.Y >= page.Height {
		return fmt.Errorf("y must be between 0 and %d", page.Height-1)
	}
	return nil
}

// ValidateBrightness checks a brightness request.
func ValidateBrightness(b BrightnessRequest) error {
	if b.Brightness < 0 || b.Brightness > 255 {
		return errors.New("brightness must be between 0 and 255")
	}
	return nil
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	Remote      Remote
	Touch       Toucher
	Screen      Screen
	Page        PageConfig
	staticFS    fs.FS
	upgrader    websocket.Upgrader
}

// NewHandlers creates handlers with the given dependencies.
// If touch is nil, POST /touch and touches over /ws return 503 or are dropped.
func NewHandlers(broadcaster *StatusBroadcaster, r Remote, touch Toucher, screen Screen, page PageConfig, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		Remote:      r,
		Touch:       touch,
		Screen:      screen,
		Page:        page,
		staticFS:    staticFS,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleConfig returns the page description as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Page)
}

// HandleState returns a snapshot of the remote as JSON.
func (h *Handlers) HandleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Remote.Snapshot())
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleTouch handles POST /touch to press or release the virtual panel.
func (h *Handlers) HandleTouch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req TouchRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateTouch(req, h.Page); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.Touch == nil {
		http.Error(w, "virtual touch not configured", http.StatusServiceUnavailable)
		return
	}

	h.applyTouch(req)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) applyTouch(req TouchRequest) {
	if req.Action == "press" {
		h.Touch.Press(req.X, req.Y)
	} else {
		h.Touch.Release()
	}
	debug.Trace("web touch %s (%d,%d)", req.Action, req.X, req.Y)
}

// HandleBrightness handles POST /brightness.
func (h *Handlers) HandleBrightness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req BrightnessRequest
	if err := decodeBody(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateBrightness(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Remote.SetBrightness(req.Brightness)
	h.Broadcaster.Broadcast("info", fmt.Sprintf("Brightness set to %d", req.Brightness))
	writeJSON(w, http.StatusOK, req)
}

// HandleRedraw handles POST /redraw to repaint the whole page.
func (h *Handlers) HandleRedraw(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.Remote.RequestFullRedraw()
	w.WriteHeader(http.StatusNoContent)
}

// HandleScreen handles GET /screen.png.
func (h *Handlers) HandleScreen(w http.ResponseWriter, r *http.Request) {
	if h.Screen == nil {
		http.Error(w, "no screen", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.Screen.WritePNG(w); err != nil {
		debug.Error(fmt.Errorf("web: encode screen: %w", err))
	}
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// HandleWebSocket handles GET /ws. Status messages go out as text frames;
// incoming frames are TouchRequest JSON.
func (h *Handlers) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		debug.Error(fmt.Errorf("web: upgrade: %w", err))
		return
	}
	defer ws.Close()

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var req TouchRequest
			if err := ws.ReadJSON(&req); err != nil {
				return
			}
			if h.Touch == nil || ValidateTouch(req, h.Page) != nil {
				continue
			}
			h.applyTouch(req)
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
