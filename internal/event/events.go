package event

import "ptb/internal/domain"

// Event types
const (
	WatchStarted = "watch_started"
	RunFinished  = "run_finished"
)

// Event is one watch-session notification. Results is populated only on
// RunFinished.
type Event struct {
	Type    string                  `json:"type"`
	Root    string                  `json:"root"`
	Trigger string                  `json:"trigger,omitempty"`
	Results []domain.TestCaseResult `json:"results,omitempty"`
}

// Bus fans watch-session events out to any number of subscribers.
type Bus struct {
	subscribe   chan chan Event
	unsubscribe chan chan Event
	publish     chan Event
}

// NewBus creates a bus and starts its dispatch loop.
func NewBus() *Bus {
	b := &Bus{
		subscribe:   make(chan chan Event),
		unsubscribe: make(chan chan Event),
		publish:     make(chan Event, 16),
	}
	go b.loop()
	return b
}

func (b *Bus) loop() {
	subs := make(map[chan Event]bool)
	for {
		select {
		case ch := <-b.subscribe:
			subs[ch] = true
		case ch := <-b.unsubscribe:
			if subs[ch] {
				delete(subs, ch)
				close(ch)
			}
		case evt := <-b.publish:
			for ch := range subs {
				select {
				case ch <- evt:
				default:
					// Slow subscribers miss events instead of blocking the bus.
				}
			}
		}
	}
}

// Subscribe returns a channel receiving every event published after the call.
func (b *Bus) Subscribe() chan Event {
	ch := make(chan Event, 16)
	b.subscribe <- ch
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Bus) Unsubscribe(ch chan Event) {
	b.unsubscribe <- ch
}

// Fire publishes an event without blocking the caller.
func (b *Bus) Fire(evt Event) {
	select {
	case b.publish <- evt:
	default:
	}
}
