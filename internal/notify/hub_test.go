package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []interface{}
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, v)
	return nil
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	sub := hub.Subscribe("u1", "c1", conn)
	defer sub.Close()

	assert.True(t, hub.IsOnline("u1"))
	hub.Publish("u1", map[string]string{"event": "new_message"})
	assert.Equal(t, 1, conn.count())

	// Events for other users never reach this subscription.
	hub.Publish("u2", map[string]string{"event": "new_message"})
	assert.Equal(t, 1, conn.count())
}

func TestPublishFansOutPerConnection(t *testing.T) {
	hub := NewHub()
	conn1 := &fakeConn{}
	conn2 := &fakeConn{}

	sub1 := hub.Subscribe("u1", "c1", conn1)
	sub2 := hub.Subscribe("u1", "c2", conn2)
	defer sub1.Close()
	defer sub2.Close()

	require.Equal(t, 2, hub.CountSubscriptions("u1"))
	hub.Publish("u1", map[string]string{"event": "new_response"})
	assert.Equal(t, 1, conn1.count())
	assert.Equal(t, 1, conn2.count())
}

func TestCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	sub := hub.Subscribe("u1", "c1", conn)
	sub.Close()
	assert.NotPanics(t, sub.Close)
	assert.False(t, hub.IsOnline("u1"))
}

func TestPublishAfterCloseIsNoOp(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}

	sub := hub.Subscribe("u1", "c1", conn)
	sub.Close()

	hub.Publish("u1", map[string]string{"event": "new_message"})
	assert.Equal(t, 0, conn.count())

	// A send on a handle held after teardown must not write or error.
	assert.NoError(t, sub.Send(map[string]string{"event": "late"}))
	assert.Equal(t, 0, conn.count())
}

func TestCloseOnlyRemovesOwnConnection(t *testing.T) {
	hub := NewHub()
	conn1 := &fakeConn{}
	conn2 := &fakeConn{}

	sub1 := hub.Subscribe("u1", "c1", conn1)
	sub2 := hub.Subscribe("u1", "c2", conn2)

	sub1.Close()
	assert.True(t, hub.IsOnline("u1"))

	hub.Publish("u1", map[string]string{"event": "new_message"})
	assert.Equal(t, 0, conn1.count())
	assert.Equal(t, 1, conn2.count())

	sub2.Close()
	assert.False(t, hub.IsOnline("u1"))
}
