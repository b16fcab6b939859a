// File: bollywood/actor.go
package bollywood

import "errors"

// PID identifies a running actor process.
type PID struct {
	ID string
}

func (p *PID) String() string {
	if p == nil {
		return "nil"
	}
	return p.ID
}

// Actor is the behaviour contract: one Receive call per delivered message.
type Actor interface {
	Receive(ctx Context)
}

// Producer creates a fresh actor instance for a spawn.
type Producer func() Actor

// Props describes how to build an actor.
type Props struct {
	producer Producer
}

func NewProps(producer Producer) *Props {
	return &Props{producer: producer}
}

// Produce builds the actor instance from the configured producer.
func (p *Props) Produce() Actor {
	if p.producer == nil {
		return nil
	}
	return p.producer()
}

// --- System messages ---

// Started is delivered once, before any user message.
type Started struct{}

// Stopping is delivered when a stop was requested, before the mailbox drains.
type Stopping struct{}

// Stopped is delivered last, after the actor's loop has exited.
type Stopped struct{}

// ErrTimeout is returned by Engine.Ask when no reply arrives in time.
var ErrTimeout = errors.New("bollywood: ask timed out")

// Context carries per-message information into Receive.
type Context interface {
	Engine() *Engine
	Self() *PID
	Sender() *PID
	Message() interface{}
	// RequestID is non-empty when the message was delivered via Ask.
	RequestID() string
	// Reply answers an Ask request. It is a no-op for plain Send messages.
	Reply(response interface{})
}

type context struct {
	engine    *Engine
	self      *PID
	sender    *PID
	message   interface{}
	requestID string
	replyCh   chan interface{}
}

func (c *context) Engine() *Engine      { return c.engine }
func (c *context) Self() *PID           { return c.self }
func (c *context) Sender() *PID         { return c.sender }
func (c *context) Message() interface{} { return c.message }
func (c *context) RequestID() string    { return c.requestID }

func (c *context) Reply(response interface{}) {
	if c.replyCh == nil {
		return
	}
	select {
	case c.replyCh <- response:
	default:
		// Asker already gave up; drop the reply instead of blocking the actor.
	}
}
