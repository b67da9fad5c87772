package renderer

import (
	"context"
	"image/color"
	"runtime"
	"sync"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Row int
}

// RowResult contains the result from rendering a scanline
type RowResult struct {
	Row               int
	Pixels            []color.RGBA
	LuminanceVariance float64 // Sum over the row's pixels
	Error             error
}

// WorkerPool manages parallel scanline rendering. Workers share one
// Raytracer; each row brings its own random stream.
type WorkerPool struct {
	ctx         context.Context
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
	numWorkers  int
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// maxTasks bounds the queues so that submitting and finishing never block.
func NewWorkerPool(ctx context.Context, raytracer *Raytracer, numWorkers, maxTasks int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	return &WorkerPool{
		ctx:         ctx,
		raytracer:   raytracer,
		taskQueue:   make(chan RowTask, maxTasks),
		resultQueue: make(chan RowResult, maxTasks),
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers. It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.taskQueue) // No more tasks
		wp.wg.Wait()        // Wait for workers to finish
		close(wp.resultQueue)
	})
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		// Once cancelled, drain the queue without rendering
		if err := wp.ctx.Err(); err != nil {
			wp.resultQueue <- RowResult{Row: task.Row, Error: err}
			continue
		}

		pixels, variance := wp.raytracer.RenderRow(task.Row)
		wp.resultQueue <- RowResult{
			Row:               task.Row,
			Pixels:            pixels,
			LuminanceVariance: variance,
		}
	}
}
