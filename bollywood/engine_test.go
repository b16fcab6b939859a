// File: bollywood/engine_test.go
package bollywood

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type echoActor struct {
	mu       sync.Mutex
	received []interface{}
}

type ping struct{ Value int }

func (a *echoActor) Receive(ctx Context) {
	a.mu.Lock()
	a.received = append(a.received, ctx.Message())
	a.mu.Unlock()

	if msg, ok := ctx.Message().(ping); ok && ctx.RequestID() != "" {
		ctx.Reply(msg.Value * 2)
	}
}

func (a *echoActor) messages() []interface{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]interface{}, len(a.received))
	copy(out, a.received)
	return out
}

func TestEngineSpawnSendStop(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(2 * time.Second)

	actor := &echoActor{}
	pid := engine.Spawn(NewProps(func() Actor { return actor }))
	assert.NotNil(t, pid)

	engine.Send(pid, ping{Value: 1}, nil)

	assert.Eventually(t, func() bool {
		msgs := actor.messages()
		if len(msgs) < 2 {
			return false
		}
		_, startedFirst := msgs[0].(Started)
		return startedFirst
	}, time.Second, 10*time.Millisecond, "actor should receive Started then the user message")

	engine.Stop(pid)
	assert.Eventually(t, func() bool {
		for _, msg := range actor.messages() {
			if _, ok := msg.(Stopped); ok {
				return true
			}
		}
		return false
	}, time.Second, 10*time.Millisecond, "actor should receive Stopped after Stop")
}

func TestEngineAsk(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(2 * time.Second)

	pid := engine.Spawn(NewProps(func() Actor { return &echoActor{} }))
	assert.NotNil(t, pid)

	reply, err := engine.Ask(pid, ping{Value: 21}, time.Second)
	assert.NoError(t, err)
	assert.Equal(t, 42, reply)
}

func TestEngineAskTimeout(t *testing.T) {
	engine := NewEngine()
	defer engine.Shutdown(2 * time.Second)

	// Actor that never replies.
	pid := engine.Spawn(NewProps(func() Actor {
		return actorFunc(func(ctx Context) {})
	}))
	assert.NotNil(t, pid)

	_, err := engine.Ask(pid, ping{Value: 1}, 50*time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

type actorFunc func(ctx Context)

func (f actorFunc) Receive(ctx Context) { f(ctx) }
