package suggest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"moodmap/places"
)

func TestHandler(t *testing.T) {
	selected := make(chan places.Address, 1)
	h := &Handler{
		Fetcher: &fakeFetcher{},
		Delay:   time.Millisecond,
		OnSelect: func(r *http.Request, a places.Address) any {
			selected <- a
			return map[string]string{"location": a.Formatted}
		},
	}
	srv := httptest.NewServer(h)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	if err := conn.WriteJSON(Message{Type: "input", Text: "Rome"}); err != nil {
		t.Fatal(err)
	}
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "suggestions" || len(m.Items) != 1 || m.Items[0].Formatted != "Rome result" {
		t.Fatalf("unexpected message: %+v", m)
	}

	if err := conn.WriteJSON(Message{Type: "select", Index: 0}); err != nil {
		t.Fatal(err)
	}
	// The clear update comes first, then the selection.
	m = Message{}
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "suggestions" || len(m.Items) != 0 {
		t.Fatalf("expected clear, got %+v", m)
	}
	m = Message{}
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "selected" || m.Chosen == nil || m.Chosen.Formatted != "Rome result" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if a := <-selected; a.Formatted != "Rome result" {
		t.Errorf("OnSelect got %+v", a)
	}
}
