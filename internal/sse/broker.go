// Package sse implements the Server-Sent Events broker that pushes viewer
// state, load progress, and render commands to connected browser clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event types published by the viewer.
const (
	TypeState           = "state.changed"
	TypeProgress        = "load.progress"
	TypeStatus          = "status"
	TypeScheduleError   = "schedule.error"
	TypeManifestChanged = "manifest.changed"
	TypeRender          = "render"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type progressReq struct {
	loaded int
	total  int
	file   string
}

// Broker manages SSE client connections and broadcasts viewer events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients + progress throttle timestamp). Public methods communicate
// with this loop through channels, so no mutexes are required.
type Broker struct {
	progressMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	progressCh    chan progressReq
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker. progressThrottle bounds how often
// intermediate load-progress events reach clients; terminal progress
// events (last file of a batch) are always delivered.
func NewBroker(progressThrottle time.Duration) *Broker {
	if progressThrottle <= 0 {
		progressThrottle = 100 * time.Millisecond
	}

	b := &Broker{
		progressMin:   progressThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		progressCh:    make(chan progressReq, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastProgress time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		msg := fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload)
		raw := []byte(msg)

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking broker loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case event := <-b.publishCh:
			broadcast(event)

		case req := <-b.progressCh:
			now := time.Now()
			terminal := req.loaded >= req.total
			if !terminal && now.Sub(lastProgress) < b.progressMin {
				continue
			}
			lastProgress = now
			broadcast(Event{Type: TypeProgress, Data: map[string]any{
				"loaded": req.loaded,
				"total":  req.total,
				"file":   req.file,
			}})

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops the broker loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// Publish sends an event to all connected clients.
func (b *Broker) Publish(event Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- event:
	case <-b.stopped:
	}
}

// PublishState broadcasts a navigation state snapshot.
func (b *Broker) PublishState(snapshot any) {
	b.Publish(Event{Type: TypeState, Data: snapshot})
}

// PublishStatus broadcasts a user-visible status line ("loading 3 of 12",
// "no models found", manifest failure text).
func (b *Broker) PublishStatus(msg string) {
	b.Publish(Event{Type: TypeStatus, Data: map[string]string{"message": msg}})
}

// PublishScheduleError broadcasts an inline schedule-area error. Loaded
// models stay browsable; only the schedule display is affected.
func (b *Broker) PublishScheduleError(msg string) {
	b.Publish(Event{Type: TypeScheduleError, Data: map[string]string{"message": msg}})
}

// PublishManifestChanged notifies clients that a project's assets changed
// on disk and a reload would pick them up.
func (b *Broker) PublishManifestChanged(project string) {
	b.Publish(Event{Type: TypeManifestChanged, Data: map[string]string{"project": project}})
}

// PublishRender broadcasts a render command for the browser renderer.
func (b *Broker) PublishRender(cmd any) {
	b.Publish(Event{Type: TypeRender, Data: cmd})
}

// PublishProgress reports sequential load progress ("loaded of total"),
// throttled except for the terminal event of a batch.
func (b *Broker) PublishProgress(loaded, total int, file string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.progressCh <- progressReq{loaded: loaded, total: total, file: file}:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
