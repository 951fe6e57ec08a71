package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow is the GLFW window backing an engineWindow.
type glfwWindow struct {
	handle  *glfw.Window
	escaped bool
	closed  bool
}

// openGLFW initializes GLFW and creates a fixed-size window with no client API. GLFW must stay on the
// thread that called it, so the calling goroutine is locked to its OS thread.
//
// Parameters:
//   - title: the title bar text
//   - width: the requested client width in pixels
//   - height: the requested client height in pixels
//
// Returns:
//   - *glfwWindow: the open window
//   - uint32: the framebuffer width in pixels
//   - uint32: the framebuffer height in pixels
//   - error: error if GLFW cannot be initialized or the window cannot be created
func openGLFW(title string, width, height uint32) (*glfwWindow, uint32, uint32, error) {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to initialize GLFW: %w", err)
	}

	// The surface is driven by WebGPU, not OpenGL.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	handle, err := glfw.CreateWindow(int(width), int(height), title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, 0, 0, fmt.Errorf("failed to create GLFW window %q: %w", title, err)
	}

	gw := &glfwWindow{handle: handle}
	handle.SetKeyCallback(func(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.escaped = true
			win.SetShouldClose(true)
		}
	})

	// Pixel size, which differs from the requested size on scaled displays.
	fbWidth, fbHeight := handle.GetFramebufferSize()

	glfw.SetTime(0)
	return gw, uint32(fbWidth), uint32(fbHeight), nil
}

func (g *glfwWindow) surfaceDescriptor() *wgpu.SurfaceDescriptor {
	if g.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(g.handle)
}

func (g *glfwWindow) open() bool {
	return !g.closed && !g.escaped && !g.handle.ShouldClose()
}

func (g *glfwWindow) poll() {
	if g.open() {
		glfw.PollEvents()
	}
}

// close destroys the window and terminates GLFW once.
func (g *glfwWindow) close() {
	if g.closed {
		return
	}
	g.closed = true
	g.handle.Destroy()
	glfw.Terminate()
}

func glfwTime() float64 {
	return glfw.GetTime()
}
