package window

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrNotOpen is returned by Close on a window that was never opened.
var ErrNotOpen = errors.New("window is not open")

// Window provides a fixed-size platform window presenting a WebGPU surface.
// The window is not resizable, and pressing Escape closes it.
type Window interface {
	// SurfaceDescriptor returns the native surface handle for this window, built by wgpuglfw.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil once the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PollEvents processes pending window events without blocking.
	PollEvents()

	// Time returns the seconds elapsed since the window was created.
	//
	// Returns:
	//   - float64: the elapsed time in seconds
	Time() float64

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources. Calling it again is a no-op.
	//
	// Returns:
	//   - error: ErrNotOpen if the window was never opened
	Close() error

	// Width returns the framebuffer width in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the framebuffer height in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32
}

// engineWindow is the implementation of the Window interface.
type engineWindow struct {
	title string

	// width and height are the framebuffer size once the window is open.
	width  uint32
	height uint32

	platform *glfwWindow
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a new Window with the specified options.
// Applies default values first, then each option in order. Must be called from the main goroutine.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the window
//   - error: error if the platform window cannot be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:  "oxy-lite",
		width:  640,
		height: 480,
	}
	for _, opt := range options {
		opt(w)
	}
	platform, width, height, err := openGLFW(w.title, w.width, w.height)
	if err != nil {
		return nil, err
	}
	w.platform = platform
	w.width, w.height = width, height
	return w, nil
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	if w.platform == nil {
		return nil
	}
	return w.platform.surfaceDescriptor()
}

func (w *engineWindow) PollEvents() {
	if w.platform != nil {
		w.platform.poll()
	}
}

func (w *engineWindow) Time() float64 {
	return glfwTime()
}

func (w *engineWindow) IsRunning() bool {
	return w.platform != nil && w.platform.open()
}

func (w *engineWindow) Close() error {
	if w.platform == nil {
		return ErrNotOpen
	}
	w.platform.close()
	return nil
}

func (w *engineWindow) Width() uint32 {
	return w.width
}

func (w *engineWindow) Height() uint32 {
	return w.height
}
