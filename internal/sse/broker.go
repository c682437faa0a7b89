// Package sse streams archive changes and chart symbol updates to browsers
// over Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

// Event types emitted by the broker itself.
const (
	ViewUpdated = "view.updated"
	ChartSymbol = "chart.symbol"
)

// clientBuffer is the per-client queue length, plus one slot for the gap
// hint. The replay backlog is no longer, so a resumed client always
// receives the whole backlog.
const (
	clientBuffer = 64
	backlogSize  = clientBuffer
)

// gapHint tells a resumed client that frames older than the backlog were
// lost and it should refetch its view. It has no id so the client keeps its
// Last-Event-ID.
var gapHint = []byte("event: " + ViewUpdated + "\ndata: {}\n\n")

// Event is one SSE message.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type frame struct {
	id  uint64
	raw []byte
}

type subscription struct {
	ch     chan []byte
	lastID uint64 // 0 for a fresh client
}

type outgoing struct {
	event    Event
	viewHint bool
}

// Broker fans events out to connected clients.
//
// A single loop goroutine owns the client set, the frame counter, the
// replay backlog and the view throttle. Public methods only send to it.
type Broker struct {
	viewMin time.Duration

	subCh   chan subscription
	unsubCh chan chan []byte
	eventCh chan outgoing
	countCh chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker that emits view.updated at most once per
// viewThrottle.
func NewBroker(viewThrottle time.Duration) *Broker {
	if viewThrottle <= 0 {
		viewThrottle = 2 * time.Second
	}
	b := &Broker{
		viewMin: viewThrottle,
		subCh:   make(chan subscription),
		unsubCh: make(chan chan []byte),
		eventCh: make(chan outgoing, 256),
		countCh: make(chan chan int),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go b.loop()
	return b
}

func (b *Broker) loop() {
	defer close(b.stopped)

	var (
		clients  = make(map[chan []byte]struct{})
		backlog  []frame
		symbol   []byte // latest chart.symbol frame
		seq      uint64
		lastView time.Time
	)

	emit := func(e Event) {
		payload, err := json.Marshal(e.Data)
		if err != nil {
			return
		}
		seq++
		f := frame{id: seq, raw: []byte(fmt.Sprintf("id: %d\nevent: %s\ndata: %s\n\n", seq, e.Type, payload))}
		if len(backlog) == backlogSize {
			backlog = backlog[1:]
		}
		backlog = append(backlog, f)
		if e.Type == ChartSymbol {
			symbol = f.raw
		}
		for ch := range clients {
			select {
			case ch <- f.raw:
			default: // slow client
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

		case s := <-b.subCh:
			clients[s.ch] = struct{}{}
			if s.lastID == 0 {
				if symbol != nil {
					s.ch <- symbol
				}
				continue
			}
			if len(backlog) > 0 && s.lastID+1 < backlog[0].id {
				s.ch <- gapHint
			}
			for _, f := range backlog {
				if f.id > s.lastID {
					s.ch <- f.raw
				}
			}

		case ch := <-b.unsubCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case out := <-b.eventCh:
			emit(out.event)
			if out.viewHint {
				if now := time.Now(); now.Sub(lastView) >= b.viewMin {
					lastView = now
					emit(Event{Type: ViewUpdated, Data: map[string]string{}})
				}
			}

		case resp := <-b.countCh:
			resp <- len(clients)
		}
	}
}

// Close stops the loop and closes every client channel.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a fresh client. It receives the current chart symbol, if
// any, then live events.
func (b *Broker) Subscribe() chan []byte {
	return b.resume(0)
}

// resume adds a client that already saw events up to lastID and replays
// what it missed from the backlog.
func (b *Broker) resume(lastID uint64) chan []byte {
	ch := make(chan []byte, clientBuffer+1)
	if b.closed.Load() {
		close(ch)
		return ch
	}
	select {
	case b.subCh <- subscription{ch: ch, lastID: lastID}:
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
	case b.unsubCh <- ch:
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
	case b.countCh <- resp:
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
	b.send(outgoing{event: event})
}

// PublishChange broadcasts an archive change followed by a throttled
// view.updated hint. It satisfies archive.Publisher.
func (b *Broker) PublishChange(kind string, data any) {
	b.send(outgoing{event: Event{Type: kind, Data: data}, viewHint: true})
}

// PublishSymbol broadcasts a new chart symbol.
func (b *Broker) PublishSymbol(symbol string) {
	b.Publish(Event{Type: ChartSymbol, Data: map[string]string{"symbol": symbol}})
}

func (b *Broker) send(out outgoing) {
	if b.closed.Load() {
		return
	}
	select {
	case b.eventCh <- out:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint (GET /api/events). A Last-Event-ID header
// resumes the stream from the backlog.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	lastID, _ := strconv.ParseUint(r.Header.Get("Last-Event-ID"), 10, 64)

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("retry: 3000\n\n"))
	flusher.Flush()

	ch := b.resume(lastID)
	defer b.Unsubscribe(ch)

	for {
		select {
		case <-r.Context().Done():
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
