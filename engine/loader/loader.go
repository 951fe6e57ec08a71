package loader

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-lite/engine/model"
	"github.com/Carmen-Shannon/oxy-lite/engine/renderer/shader"
	"github.com/charmbracelet/log"
)

// Assets is everything read from disk before the device is created.
type Assets struct {
	// Mesh is the parsed geometry.
	Mesh *model.Mesh

	// Shader is the WGSL program the pipeline is built from.
	Shader shader.Source
}

// loader is the implementation of the Loader interface.
type loader struct {
	logger        *log.Logger
	workers       int
	shaderOptions []shader.SourceBuilderOption

	pool worker.DynamicWorkerPool
}

// Loader reads the startup assets. All failures are initialization errors: nothing is retried
// and no partial result is returned.
type Loader interface {
	// LoadGeometry reads and parses a geometry text file.
	//
	// Parameters:
	//   - path: the file path to the geometry description
	//
	// Returns:
	//   - *model.Mesh: the parsed streams
	//   - error: error if the file cannot be opened or parsed
	LoadGeometry(path string) (*model.Mesh, error)

	// LoadShader reads a WGSL file. An empty path selects the built-in program.
	//
	// Parameters:
	//   - path: the file path to the WGSL source, or ""
	//
	// Returns:
	//   - shader.Source: the program
	//   - error: error if the file cannot be read
	LoadShader(path string) (shader.Source, error)

	// LoadAssets reads the geometry and the shader concurrently and waits for both.
	//
	// Parameters:
	//   - geometryPath: the file path to the geometry description
	//   - shaderPath: the file path to the WGSL source, or "" for the built-in program
	//
	// Returns:
	//   - Assets: the loaded mesh and shader
	//   - error: the joined errors of every failed load, or nil
	LoadAssets(geometryPath, shaderPath string) (Assets, error)
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the provided options.
//
// Parameters:
//   - options: functional options to configure the loader
//
// Returns:
//   - Loader: the configured loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		logger:  log.Default(),
		workers: 2,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.workers < 1 {
		l.workers = 1
	}
	l.pool = worker.NewDynamicWorkerPool(l.workers, 16, 1*time.Second)
	return l
}

func (l *loader) LoadGeometry(path string) (*model.Mesh, error) {
	started := time.Now()
	mesh, err := LoadGeometry(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("geometry loaded", "path", path, "vertices", mesh.VertexCount(), "indices", len(mesh.Indices), "took", time.Since(started))
	return mesh, nil
}

func (l *loader) LoadShader(path string) (shader.Source, error) {
	if path == "" {
		l.logger.Debug("using built-in shader")
		return shader.Default(l.shaderOptions...), nil
	}
	src, err := shader.Load(path, l.shaderOptions...)
	if err != nil {
		return shader.Source{}, err
	}
	l.logger.Debug("shader loaded", "path", path, "bytes", len(src.Code))
	return src, nil
}

func (l *loader) LoadAssets(geometryPath, shaderPath string) (Assets, error) {
	var (
		assets              Assets
		geometryErr, srcErr error
	)

	// The pool's own Wait blocks until workers idle out, so a WaitGroup is the barrier.
	var wg sync.WaitGroup
	wg.Add(2)
	l.pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer wg.Done()
			assets.Mesh, geometryErr = l.LoadGeometry(geometryPath)
			return nil, geometryErr
		},
	})
	l.pool.SubmitTask(worker.Task{
		ID: 1,
		Do: func() (any, error) {
			defer wg.Done()
			assets.Shader, srcErr = l.LoadShader(shaderPath)
			return nil, srcErr
		},
	})
	wg.Wait()

	if err := errors.Join(geometryErr, srcErr); err != nil {
		return Assets{}, err
	}
	return assets, nil
}
