package systems

import (
	"sync"

	"github.com/pthm-cable/sensefield/sense"
)

// workChunk represents a range of snapshots for a worker to process.
type workChunk struct {
	start, end int
}

// chunkFunc computes snapshots [start, end) using the worker's scratch buffer.
type chunkFunc func(start, end int, scratch *sense.ScratchBuffer)

// workerPool is a persistent set of goroutines, each owning one scratch buffer.
type workerPool struct {
	compute    chunkFunc
	scratch    *sense.ScratchPool
	numWorkers int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newWorkerPool(numWorkers int, compute chunkFunc) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &workerPool{
		compute:    compute,
		scratch:    sense.NewScratchPool(numWorkers),
		numWorkers: numWorkers,
	}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *workerPool) worker(id int) {
	defer p.wg.Done()
	scratch := p.scratch.Worker(id)

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.compute(chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// runSerial computes all n items on the calling goroutine with worker 0's
// scratch buffer. Workers must be idle.
func (p *workerPool) runSerial(n int) {
	p.compute(0, n, p.scratch.Worker(0))
}

// runParallel splits n items into one chunk per worker and waits for all of
// them.
func (p *workerPool) runParallel(n int) {
	if !p.running {
		p.start()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
