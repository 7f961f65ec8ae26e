package engine

import "github.com/plus3/blockfall/event"

// Emitter receives the events flushed at the end of a frame.
type Emitter interface {
	Emit(e event.Event)
}

// Commands collects the events raised during a frame. Listeners only see them
// once every system has run, in the order they were raised.
type Commands struct {
	emits []event.Event
}

// Emit queues an event.
func (c *Commands) Emit(e event.Event) {
	c.emits = append(c.emits, e)
}

// Flush delivers queued events to out and empties the buffer.
func (c *Commands) Flush(out Emitter) {
	for _, e := range c.emits {
		out.Emit(e)
	}

	clear(c.emits)
	c.emits = c.emits[:0]
}
