package telemetry

import (
	"bytes"
	"sync"
	"time"

	"go.trai.ch/zerr"
)

const (
	// DefaultBatchSize is the buffered byte count that forces a flush.
	DefaultBatchSize = 4096
	// DefaultBatchInterval is the longest time output stays buffered.
	DefaultBatchInterval = 50 * time.Millisecond
)

// ErrBatcherClosed is returned when writing to a closed LogBatcher.
var ErrBatcherClosed = zerr.New("log batcher is closed")

// LogBatcher buffers task output and hands it to onFlush in chunks, either
// once size bytes are pending or every interval. It is safe for concurrent use.
type LogBatcher struct {
	size     int
	interval time.Duration
	onFlush  func([]byte)

	mu     sync.Mutex
	buf    bytes.Buffer
	ticker *time.Ticker
	done   chan struct{}
	closed bool
}

// NewLogBatcher starts a batcher. Non-positive limits select the defaults.
// Close must be called to stop its ticker.
func NewLogBatcher(size int, interval time.Duration, onFlush func([]byte)) *LogBatcher {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultBatchInterval
	}

	b := &LogBatcher{
		size:     size,
		interval: interval,
		onFlush:  onFlush,
		ticker:   time.NewTicker(interval),
		done:     make(chan struct{}),
	}
	go b.loop()
	return b
}

// Write buffers p, flushing when the size limit is reached.
func (b *LogBatcher) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrBatcherClosed
	}

	n, _ := b.buf.Write(p)
	if b.buf.Len() >= b.size {
		b.flushLocked()
		b.ticker.Reset(b.interval)
	}
	return n, nil
}

// Flush hands any buffered output to onFlush.
func (b *LogBatcher) Flush() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.flushLocked()
	}
}

// Close flushes and stops the batcher. Further writes fail.
func (b *LogBatcher) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	close(b.done)
	b.flushLocked()
	return nil
}

func (b *LogBatcher) loop() {
	for {
		select {
		case <-b.ticker.C:
			b.Flush()
		case <-b.done:
			b.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held. onFlush runs under the lock so
// chunks arrive in write order.
func (b *LogBatcher) flushLocked() {
	if b.buf.Len() == 0 {
		return
	}
	data := bytes.Clone(b.buf.Bytes())
	b.buf.Reset()
	if b.onFlush != nil {
		b.onFlush(data)
	}
}
