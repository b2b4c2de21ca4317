package mailbox

import (
	"sync"
	"testing"
)

func TestConsumeClearsSlot(t *testing.T) {
	var m Mailbox[int]
	m.Publish(42)

	v, ok := m.Consume()
	if !ok || v != 42 {
		t.Fatalf("expected (42, true), got (%d, %v)", v, ok)
	}

	// Second consume without an intervening publish must miss.
	_, ok = m.Consume()
	if ok {
		t.Fatal("expected empty mailbox on second consume")
	}
}

func TestNewerValueWins(t *testing.T) {
	var m Mailbox[string]
	m.Publish("a")
	m.Publish("b")

	v, ok := m.Consume()
	if !ok {
		t.Fatal("expected a pending value")
	}
	if v != "b" {
		t.Fatalf("expected the later publish to win, got %q", v)
	}
	if _, ok := m.Consume(); ok {
		t.Fatal("the overwritten value must not be delivered")
	}
}

func TestConsumeEmpty(t *testing.T) {
	var m Mailbox[int]
	if v, ok := m.Consume(); ok || v != 0 {
		t.Fatalf("expected zero value and false, got (%d, %v)", v, ok)
	}
}

func TestConcurrentPublishConsume(t *testing.T) {
	var m Mailbox[int]
	var wg sync.WaitGroup

	const writes = 1000
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= writes; i++ {
			m.Publish(i)
		}
	}()

	var last int
	go func() {
		defer wg.Done()
		for last < writes {
			v, ok := m.Consume()
			if !ok {
				continue
			}
			if v <= last {
				t.Errorf("values must arrive in publish order: got %d after %d", v, last)
				return
			}
			last = v
		}
	}()
	wg.Wait()
}
