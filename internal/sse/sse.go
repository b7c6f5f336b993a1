// Package sse is a small pub/sub hub for server-sent events keyed by run id.
package sse

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Buffer is the per-subscriber channel capacity.
const Buffer = 16

// Hub fans messages out to the subscribers of a run.
type Hub struct {
	mu    sync.Mutex
	conns map[string][]chan string
}

func NewHub() *Hub {
	return &Hub{conns: map[string][]chan string{}}
}

// Subscribe registers a client for id and returns its channel and an unsubscribe func.
func (h *Hub) Subscribe(id string) (<-chan string, func()) {
	ch := make(chan string, Buffer)

	h.mu.Lock()
	h.conns[id] = append(h.conns[id], ch)
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			list := h.conns[id]
			for i, c := range list {
				if c == ch {
					h.conns[id] = append(list[:i:i], list[i+1:]...)
					break
				}
			}
			if len(h.conns[id]) == 0 {
				delete(h.conns, id)
			}
		})
	}

	return ch, cancel
}

// Publish sends msg to every subscriber of id. Slow subscribers with a
// full buffer miss the message.
func (h *Hub) Publish(id, msg string) {
	h.mu.Lock()
	list := append([]chan string(nil), h.conns[id]...)
	h.mu.Unlock()

	for _, ch := range list {
		select {
		case ch <- msg:
		default:
		}
	}
}

// Subscribers reports how many clients listen on id.
func (h *Hub) Subscribers(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns[id])
}

// WriteEvent writes one event in text/event-stream framing.
// Multi-line data is split over several data: fields.
func WriteEvent(w io.Writer, event, data string) error {
	var b strings.Builder
	if event != "" {
		fmt.Fprintf(&b, "event: %s\n", event)
	}
	for _, line := range strings.Split(data, "\n") {
		fmt.Fprintf(&b, "data: %s\n", line)
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
