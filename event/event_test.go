// Copyright 2026 Critterworks Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package event

import (
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testEventType EventType = "test.event"

func TestEventBusPublishSubscribe(t *testing.T) {
	eventBus := NewEventBus(prometheus.NewRegistry(), nil)
	defer eventBus.Stop()
	_, evtCh := eventBus.Subscribe(testEventType)
	eventBus.Publish(testEventType, NewEvent(testEventType, "payload"))
	select {
	case evt := <-evtCh:
		assert.Equal(t, testEventType, evt.Type)
		assert.Equal(t, "payload", evt.Data)
		assert.False(t, evt.Timestamp.IsZero())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestEventBusMultipleSubscribers(t *testing.T) {
	eventBus := NewEventBus(nil, nil)
	defer eventBus.Stop()
	_, evtCh1 := eventBus.Subscribe(testEventType)
	_, evtCh2 := eventBus.Subscribe(testEventType)
	eventBus.Publish(testEventType, NewEvent(testEventType, 42))
	for _, evtCh := range []<-chan Event{evtCh1, evtCh2} {
		select {
		case evt := <-evtCh:
			assert.Equal(t, 42, evt.Data)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for event")
		}
	}
}

func TestEventBusPublishNoSubscribers(t *testing.T) {
	eventBus := NewEventBus(nil, nil)
	defer eventBus.Stop()
	// Publishing with no subscribers must not block or panic
	eventBus.Publish(testEventType, NewEvent(testEventType, nil))
}

func TestEventBusUnsubscribe(t *testing.T) {
	eventBus := NewEventBus(nil, nil)
	defer eventBus.Stop()
	subId, evtCh := eventBus.Subscribe(testEventType)
	eventBus.Unsubscribe(testEventType, subId)
	_, open := <-evtCh
	assert.False(t, open, "channel should be closed after unsubscribe")
	// Unsubscribing twice is a no-op
	eventBus.Unsubscribe(testEventType, subId)
}

func TestEventBusSubscribeFunc(t *testing.T) {
	defer goleak.VerifyNone(t)
	eventBus := NewEventBus(nil, nil)
	var wg sync.WaitGroup
	wg.Add(1)
	var received Event
	eventBus.SubscribeFunc(testEventType, func(evt Event) {
		received = evt
		wg.Done()
	})
	eventBus.Publish(testEventType, NewEvent(testEventType, "via func"))
	wg.Wait()
	require.Equal(t, "via func", received.Data)
	// Stop closes subscriber channels so the handler goroutine exits
	eventBus.Stop()
}

func TestEventBusStopThenReuse(t *testing.T) {
	eventBus := NewEventBus(nil, nil)
	_, evtCh := eventBus.Subscribe(testEventType)
	eventBus.Stop()
	_, open := <-evtCh
	assert.False(t, open)
	// The bus remains usable after Stop
	_, evtCh2 := eventBus.Subscribe(testEventType)
	eventBus.Publish(testEventType, NewEvent(testEventType, "again"))
	select {
	case evt := <-evtCh2:
		assert.Equal(t, "again", evt.Data)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event after restart")
	}
	eventBus.Stop()
}
