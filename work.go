package main

const batchSize = 64

// work is a batch of raw CSV stay records. seq orders batches so the
// sink can write results in input order.
type work struct {
	seq     int
	records [][]string
}

// workPool recycles batches between the producer and the workers and
// bounds how far the producer can run ahead of the sink.
type workPool chan *work

func newWorkPool(size int) workPool {
	pool := make(workPool, size)

	for i := 0; i < size; i++ {
		pool <- &work{records: make([][]string, 0, batchSize)}
	}

	return pool
}

func (p workPool) get(seq int) *work {
	w := <-p
	w.seq = seq
	w.records = w.records[:0]
	return w
}

func (p workPool) put(w *work) {
	p <- w
}
