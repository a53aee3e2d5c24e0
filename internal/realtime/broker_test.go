package realtime

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		require.True(t, ok, "channel closed")
		return msg
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for message")
		return Message{}
	}
}

func TestBroker_PublishSubscribe(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch1, cancel1 := b.Subscribe("team:1")
	defer cancel1()
	ch2, cancel2 := b.Subscribe("team:1")
	defer cancel2()
	other, cancelOther := b.Subscribe("team:2")
	defer cancelOther()

	delivered := b.Publish("team:1", Message{Type: "member_joined"})
	assert.Equal(t, 2, delivered)

	assert.Equal(t, "member_joined", receive(t, ch1).Type)
	assert.Equal(t, "member_joined", receive(t, ch2).Type)

	select {
	case <-other:
		t.Fatal("other topic should not receive")
	default:
	}
}

func TestBroker_Cancel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("t")
	assert.Equal(t, 1, b.Subscribers("t"))

	cancel()
	cancel()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers("t"))
	assert.Equal(t, 0, b.Publish("t", Message{Type: "x"}))
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	_, cancel := b.Subscribe("t")
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*4; i++ {
			b.Publish("t", Message{Type: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestBroker_Close(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe("t")
	assert.False(t, b.Closed())

	b.Close()
	b.Close()
	assert.True(t, b.Closed())
	_, ok := <-ch
	assert.False(t, ok)

	cancel()

	late, _ := b.Subscribe("t")
	_, ok = <-late
	assert.False(t, ok)
}

func TestBroker_Concurrent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch, cancel := b.Subscribe("t")
			b.Publish("t", Message{Type: "x"})
			select {
			case <-ch:
			default:
			}
			cancel()
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, b.Subscribers("t"))
}
