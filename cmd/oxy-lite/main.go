// Command oxy-lite renders a single rotating mesh from a geometry text file and a WGSL shader.
package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW and the wgpu surface must stay on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}
