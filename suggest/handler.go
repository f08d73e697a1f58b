package suggest

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	json "github.com/goccy/go-json"

	"moodmap/app"
	"moodmap/places"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

const writeWait = 10 * time.Second

// Message is exchanged over the suggestion socket. The page sends "input"
// with Text, "select" with Index, or "dismiss". The server replies with
// "suggestions" or "selected".
type Message struct {
	Type   string           `json:"type"`
	Text   string           `json:"text,omitempty"`
	Index  int              `json:"index,omitempty"`
	Seq    uint64           `json:"seq,omitempty"`
	Items  []places.Address `json:"items,omitempty"`
	Chosen *places.Address  `json:"chosen,omitempty"`
	State  any              `json:"state,omitempty"`
}

// SelectFunc applies a chosen suggestion for the request's session and
// returns the state to send back to the page.
type SelectFunc func(r *http.Request, a places.Address) any

// Handler serves one WebSocket per page for autocomplete.
type Handler struct {
	Fetcher  Fetcher
	OnSelect SelectFunc
	Delay    time.Duration
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.Log("suggest", "WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	var writeMu sync.Mutex
	send := func(m Message) {
		b, err := json.Marshal(m)
		if err != nil {
			return
		}
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			app.Debug("suggest", "write failed: %v", err)
		}
	}

	s := New(h.Fetcher, func(u Update) {
		send(Message{Type: "suggestions", Seq: u.Seq, Items: u.Suggestions})
	})
	if h.Delay > 0 {
		s.Delay = h.Delay
	}
	defer s.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		switch m.Type {
		case "input":
			s.Input(m.Text)
		case "dismiss":
			s.Dismiss()
		case "select":
			a, ok := s.Select(m.Index)
			if !ok {
				continue
			}
			reply := Message{Type: "selected", Chosen: &a}
			if h.OnSelect != nil {
				reply.State = h.OnSelect(r, a)
			}
			send(reply)
		}
	}
}
