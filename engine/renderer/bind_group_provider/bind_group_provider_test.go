package bind_group_provider

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-lite/engine/renderer"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/renderertest"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBuffer(t *testing.T, b *renderertest.Backend, label string, size uint64) renderer.Buffer {
	t.Helper()
	buf, err := b.CreateBuffer(label, size, wgpu.BufferUsageCopyDst)
	require.NoError(t, err)
	return buf
}

func fullProvider(t *testing.T, b *renderertest.Backend) BindGroupProvider {
	t.Helper()
	bg, err := b.CreateUniformBindGroup(renderer.BindGroupDescriptor{})
	require.NoError(t, err)
	return NewBindGroupProvider("mesh",
		WithVertexBuffers(
			newBuffer(t, b, "position", 12),
			newBuffer(t, b, "normal", 12),
			newBuffer(t, b, "color", 12),
		),
		WithIndexBuffer(newBuffer(t, b, "index", 8), 3),
		WithBuffer(UniformBinding, newBuffer(t, b, "uniform", 16)),
		WithBindGroup(bg),
	)
}

func TestReleaseReversesCreation(t *testing.T) {
	b := renderertest.NewBackend()
	p := fullProvider(t, b)
	assert.Equal(t, uint32(3), p.IndexCount())
	assert.Equal(t, "normal", p.VertexBuffer(SlotNormal).Label())

	p.Release()
	assert.Equal(t, []string{"bind group", "uniform", "index", "color", "normal", "position"}, b.Released)
	assert.Zero(t, b.Live())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.IndexBuffer())
	assert.Nil(t, p.Buffer(UniformBinding))
	for slot := SlotPosition; slot < VertexSlots; slot++ {
		assert.Nil(t, p.VertexBuffer(slot))
	}

	p.Release()
	assert.Zero(t, b.DoubleReleases)
	assert.Len(t, b.Released, 6)
}

func TestVertexSlotBounds(t *testing.T) {
	b := renderertest.NewBackend()
	p := NewBindGroupProvider("mesh")
	p.SetVertexBuffer(VertexSlots, newBuffer(t, b, "extra", 4))
	assert.Nil(t, p.VertexBuffer(VertexSlots))
	p.SetVertexBuffer(SlotColor, newBuffer(t, b, "color", 4))
	assert.Equal(t, "color", p.VertexBuffer(SlotColor).Label())
}

func TestApply(t *testing.T) {
	b := renderertest.NewBackend()
	p := NewBindGroupProvider("mesh")
	p.SetBuffer(UniformBinding, newBuffer(t, b, "uniform", 16))

	err := Apply(b, []BufferWrite{
		{Provider: p, Binding: UniformBinding, Offset: 8, Data: []byte{1, 2, 3, 4}},
		{Provider: p, Binding: UniformBinding, Offset: 0, Data: []byte{9, 9, 9, 9}},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9, 0, 0, 0, 0, 1, 2, 3, 4, 0, 0, 0, 0}, b.Buffers["uniform"].Data)
	assert.Equal(t, []renderertest.Write{
		{Buffer: "uniform", Offset: 8, Size: 4},
		{Buffer: "uniform", Offset: 0, Size: 4},
	}, b.Writes)
}

func TestApplyMissingBinding(t *testing.T) {
	b := renderertest.NewBackend()
	p := NewBindGroupProvider("mesh")
	err := Apply(b, []BufferWrite{{Provider: p, Binding: 3, Data: []byte{0, 0, 0, 0}}})
	assert.ErrorContains(t, err, "no buffer at binding 3")
}

func TestApplyStopsAtFirstFailure(t *testing.T) {
	b := renderertest.NewBackend()
	p := NewBindGroupProvider("mesh")
	p.SetBuffer(UniformBinding, newBuffer(t, b, "uniform", 4))
	err := Apply(b, []BufferWrite{
		{Provider: p, Binding: UniformBinding, Offset: 4, Data: []byte{1, 1, 1, 1}},
		{Provider: p, Binding: UniformBinding, Offset: 0, Data: []byte{2, 2, 2, 2}},
	})
	require.Error(t, err)
	assert.Empty(t, b.Writes)
}
