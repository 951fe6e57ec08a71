package bind_group_provider

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
)

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  int
	Offset   uint64
	Data     []byte
}

// Apply queues every write on the backend in order. It stops at the first failure.
//
// Parameters:
//   - backend: the backend whose queue receives the writes
//   - writes: the writes to apply
//
// Returns:
//   - error: error if a binding has no buffer or the backend rejects a write
func Apply(backend renderer.Backend, writes []BufferWrite) error {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			return fmt.Errorf("no buffer at binding %d on %q", w.Binding, w.Provider.Label())
		}
		if err := backend.WriteBuffer(buf, w.Offset, w.Data); err != nil {
			return fmt.Errorf("failed to write %d bytes at offset %d of %q: %w", len(w.Data), w.Offset, buf.Label(), err)
		}
	}
	return nil
}
