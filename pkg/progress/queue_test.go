package progress

import (
	"errors"
	"testing"
	"time"
)

func messageTexts(events []Event) []string {
	var texts []string
	for _, ev := range events {
		texts = append(texts, ev.(MessageEvent).Text)
	}
	return texts
}

func TestQueueDeliversInOrder(t *testing.T) {
	q := newEventQueue(0, BlockProducer)
	q.push(MessageEvent{Text: "one"})
	q.push(MessageEvent{Text: "two"})
	q.push(MessageEvent{Text: "three"})
	q.close(nil)

	var got []Event
	for {
		ev, ok, fault := q.next()
		if !ok {
			if fault != nil {
				t.Fatalf("unexpected fault: %v", fault)
			}
			break
		}
		got = append(got, ev)
	}
	want := []string{"one", "two", "three"}
	texts := messageTexts(got)
	for i, text := range want {
		if texts[i] != text {
			t.Fatalf("texts = %v, want %v", texts, want)
		}
	}
}

func TestQueueFaultAfterDrain(t *testing.T) {
	boom := errors.New("boom")
	q := newEventQueue(0, BlockProducer)
	q.push(MessageEvent{Text: "queued before the fault"})
	q.close(boom)

	ev, ok, fault := q.next()
	if !ok || fault != nil {
		t.Fatalf("first next = (%v, %v, %v), want the queued event", ev, ok, fault)
	}
	_, ok, fault = q.next()
	if ok {
		t.Fatal("queue delivered an event after drain")
	}
	if !errors.Is(fault, boom) {
		t.Errorf("fault = %v, want boom", fault)
	}

	// The fault keeps being observable on repeated reads.
	_, _, fault = q.next()
	if !errors.Is(fault, boom) {
		t.Errorf("repeated fault = %v, want boom", fault)
	}
}

func TestQueueDropOldest(t *testing.T) {
	q := newEventQueue(2, DropOldest)
	q.push(MessageEvent{Text: "one"})
	q.push(MessageEvent{Text: "two"})
	q.push(MessageEvent{Text: "three"})
	q.close(nil)

	if q.depth() != 2 {
		t.Fatalf("depth = %d, want 2", q.depth())
	}
	ev, _, _ := q.next()
	if ev.(MessageEvent).Text != "two" {
		t.Errorf("first = %q, want two (oldest dropped)", ev.(MessageEvent).Text)
	}
	ev, _, _ = q.next()
	if ev.(MessageEvent).Text != "three" {
		t.Errorf("second = %q, want three", ev.(MessageEvent).Text)
	}
}

func TestQueueBlockProducer(t *testing.T) {
	q := newEventQueue(1, BlockProducer)
	q.push(MessageEvent{Text: "one"})

	unblocked := make(chan struct{})
	go func() {
		q.push(MessageEvent{Text: "two"})
		close(unblocked)
	}()

	select {
	case <-unblocked:
		t.Fatal("push into a full queue did not block")
	case <-time.After(50 * time.Millisecond):
	}

	ev, _, _ := q.next()
	if ev.(MessageEvent).Text != "one" {
		t.Fatalf("first = %q, want one", ev.(MessageEvent).Text)
	}

	select {
	case <-unblocked:
	case <-time.After(2 * time.Second):
		t.Fatal("producer stayed blocked after space opened up")
	}

	ev, _, _ = q.next()
	if ev.(MessageEvent).Text != "two" {
		t.Errorf("second = %q, want two", ev.(MessageEvent).Text)
	}
}

func TestQueueCloseUnblocksProducer(t *testing.T) {
	q := newEventQueue(1, BlockProducer)
	q.push(MessageEvent{Text: "one"})

	unblocked := make(chan struct{})
	go func() {
		q.push(MessageEvent{Text: "dropped"})
		close(unblocked)
	}()

	q.close(nil)
	select {
	case <-unblocked:
	case <-time.After(2 * time.Second):
		t.Fatal("close did not unblock a waiting producer")
	}

	// The late push was dropped, only the first event remains.
	ev, ok, _ := q.next()
	if !ok || ev.(MessageEvent).Text != "one" {
		t.Fatalf("next = (%v, %v), want the first event", ev, ok)
	}
	if _, ok, _ := q.next(); ok {
		t.Error("dropped push was delivered")
	}
}

func TestQueuePushAfterCloseDropped(t *testing.T) {
	q := newEventQueue(0, BlockProducer)
	q.close(nil)
	q.push(MessageEvent{Text: "late"})

	if _, ok, _ := q.next(); ok {
		t.Error("event pushed after close was delivered")
	}
}
