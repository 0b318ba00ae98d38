package realtime

import (
	"sync"
	"testing"
)

// testSubscriber creates a subscriber that is not backed by a network
// connection; broadcasts land in its send channel.
func testSubscriber() *Subscriber {
	return &Subscriber{
		id:   subscriberIDCounter.Add(1),
		send: make(chan Message, sendBuffer),
		done: make(chan struct{}),
	}
}

// slowSubscriber has no buffer, so the first broadcast drops it.
func slowSubscriber() *Subscriber {
	return &Subscriber{
		id:   subscriberIDCounter.Add(1),
		send: make(chan Message),
		done: make(chan struct{}),
	}
}

func drain(s *Subscriber) []Message {
	var out []Message
	for {
		select {
		case msg := <-s.send:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func isShutDown(s *Subscriber) bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func TestHubBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	subs := []*Subscriber{testSubscriber(), testSubscriber(), testSubscriber()}
	for _, s := range subs {
		hub.Register(s)
	}

	hub.Broadcast(TeamDeleted("t-1"))

	for i, s := range subs {
		msgs := drain(s)
		if len(msgs) != 1 {
			t.Fatalf("subscriber %d received %d messages, want 1", i, len(msgs))
		}
		if msgs[0].Type != MessageTypeTeamDeleted {
			t.Errorf("subscriber %d got type %q, want %q", i, msgs[0].Type, MessageTypeTeamDeleted)
		}
	}
}

func TestHubBroadcastAtMostOncePerSubscriber(t *testing.T) {
	hub := NewHub()
	s := testSubscriber()
	hub.Register(s)

	hub.Broadcast(MatchDeleted("m-1"))
	hub.Broadcast(MatchDeleted("m-2"))

	msgs := drain(s)
	if len(msgs) != 2 {
		t.Fatalf("received %d messages, want exactly 2", len(msgs))
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	kept := testSubscriber()
	removed := testSubscriber()
	hub.Register(kept)
	hub.Register(removed)

	hub.Unregister(removed)
	hub.Broadcast(PlayerDeleted("p-1"))

	if got := len(drain(kept)); got != 1 {
		t.Errorf("kept subscriber received %d messages, want 1", got)
	}
	if got := len(drain(removed)); got != 0 {
		t.Errorf("removed subscriber received %d messages after unregister", got)
	}
	if !isShutDown(removed) {
		t.Error("removed subscriber was not signalled to shut down")
	}

	if hub.SubscriberCount() != 1 {
		t.Errorf("subscriber count = %d, want 1", hub.SubscriberCount())
	}
}

func TestHubUnregisterIdempotent(t *testing.T) {
	hub := NewHub()
	s := testSubscriber()
	hub.Register(s)

	hub.Unregister(s)
	// Second call must not panic.
	hub.Unregister(s)
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	slow := slowSubscriber()
	healthy := testSubscriber()
	hub.Register(slow)
	hub.Register(healthy)

	hub.Broadcast(NewsDeleted("n-1"))

	if hub.SubscriberCount() != 1 {
		t.Fatalf("subscriber count = %d, want 1 after dropping slow subscriber", hub.SubscriberCount())
	}
	if got := len(drain(healthy)); got != 1 {
		t.Errorf("healthy subscriber received %d messages, want 1", got)
	}

	// A dropped subscriber must not be delivered to again.
	hub.Broadcast(NewsDeleted("n-2"))
	if got := len(drain(healthy)); got != 1 {
		t.Errorf("healthy subscriber received %d messages on second broadcast, want 1", got)
	}
}

func TestHubConcurrentBroadcastAndChurn(t *testing.T) {
	hub := NewHub()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s := testSubscriber()
				hub.Register(s)
				hub.Broadcast(TeamDeleted("t"))
				drain(s)
				hub.Unregister(s)
			}
		}()
	}
	wg.Wait()

	if hub.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0 after churn", hub.SubscriberCount())
	}
}

func TestHubCloseAll(t *testing.T) {
	hub := NewHub()
	subs := []*Subscriber{testSubscriber(), testSubscriber()}
	for _, s := range subs {
		hub.Register(s)
	}

	hub.CloseAll()

	if hub.SubscriberCount() != 0 {
		t.Errorf("subscriber count = %d, want 0 after CloseAll", hub.SubscriberCount())
	}
	for i, s := range subs {
		if !isShutDown(s) {
			t.Errorf("subscriber %d not signalled to shut down", i)
		}
	}
}

func TestReplyAfterSlowDropDoesNotPanic(t *testing.T) {
	hub := NewHub()
	slow := slowSubscriber()
	hub.Register(slow)

	// The broadcast finds the buffer full and drops the subscriber while its
	// read side could still be dispatching a command.
	hub.Broadcast(TeamDeleted("t-1"))
	if hub.SubscriberCount() != 0 {
		t.Fatalf("subscriber count = %d, want 0 after drop", hub.SubscriberCount())
	}

	slow.reply(Message{Type: ReplyMatchEventOK, Data: Deleted{ID: "e-1"}})

	if !isShutDown(slow) {
		t.Error("dropped subscriber was not signalled to shut down")
	}
}

func TestConcurrentReplyAndDrop(t *testing.T) {
	for i := 0; i < 100; i++ {
		hub := NewHub()
		s := &Subscriber{
			id:   subscriberIDCounter.Add(1),
			send: make(chan Message, 1),
			done: make(chan struct{}),
		}
		hub.Register(s)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				hub.Broadcast(TeamDeleted("t"))
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.reply(TeamDeleted("t"))
			}
		}()
		wg.Wait()
	}
}
