// internal/link/pipe.go
package link

import "sync"

// Pipe is an in-memory, lossless, in-order byte channel.
// It joins two nodes running in one process (simulation, tests).
type Pipe struct {
	ch chan byte

	mu     sync.Mutex
	closed bool
	held   bool
}

// NewPipe creates a pipe buffering up to capacity bytes (minimum 1).
func NewPipe(capacity int) *Pipe {
	if capacity < 1 {
		capacity = 1
	}
	return &Pipe{ch: make(chan byte, capacity)}
}

// Hold forces the sender side not-ready until released.
// Models a line that never drains.
func (p *Pipe) Hold(on bool) {
	p.mu.Lock()
	p.held = on
	p.mu.Unlock()
}

func (p *Pipe) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.closed && !p.held && len(p.ch) < cap(p.ch)
}

func (p *Pipe) Send(b byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if p.held {
		return ErrNotReady
	}
	select {
	case p.ch <- b:
		return nil
	default:
		return ErrNotReady
	}
}

func (p *Pipe) Receive() (byte, bool) {
	select {
	case b := <-p.ch:
		return b, true
	default:
		return 0, false
	}
}

// Pending returns the number of bytes sent but not yet received.
func (p *Pipe) Pending() int { return len(p.ch) }

// Close makes the sender side fail. Bytes already sent stay receivable.
func (p *Pipe) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}
