package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const ttl = 100 * time.Millisecond

func TestShowExpires(t *testing.T) {
	n := New(ttl)
	n.Show(MsgLoad)
	assert.Equal(t, MsgLoad, n.Message())

	assert.Eventually(t, func() bool { return n.Message() == "" }, time.Second, 5*time.Millisecond)
}

func TestLastMessageWins(t *testing.T) {
	n := New(ttl)
	n.Show(MsgDelete)
	time.Sleep(ttl / 2)
	n.Show(MsgUpdate)

	// The first timer fires here but must not clear the newer message.
	time.Sleep(ttl/2 + ttl/4)
	assert.Equal(t, MsgUpdate, n.Message())

	assert.Eventually(t, func() bool { return n.Message() == "" }, time.Second, 5*time.Millisecond)
}

func TestDismiss(t *testing.T) {
	n := New(time.Hour)
	var mu sync.Mutex
	var seen []string
	n.OnChange(func(msg string) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, msg)
	})

	n.Show(MsgAdd)
	n.Dismiss()
	n.Dismiss()

	assert.Equal(t, "", n.Message())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{MsgAdd, ""}, seen)
}

func TestRearmExtendsLifetime(t *testing.T) {
	n := New(ttl)
	n.Show(MsgDelete)
	time.Sleep(ttl * 3 / 4)
	n.Rearm()
	time.Sleep(ttl / 2)
	assert.Equal(t, MsgDelete, n.Message())
	assert.Eventually(t, func() bool { return n.Message() == "" }, time.Second, 5*time.Millisecond)
}

func TestRearmWithoutMessageIsNoop(t *testing.T) {
	n := New(ttl)
	n.Rearm()
	assert.Equal(t, "", n.Message())
}

func TestDefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).ttl)
}
