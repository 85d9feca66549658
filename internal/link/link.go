// internal/link/link.go
package link

import "errors"

// Sender is the transmit side of the one-byte serial channel.
// Send is only meaningful after Ready reported true; it blocks until the
// byte has been handed to the line.
type Sender interface {
	Ready() bool
	Send(b byte) error
}

// Receiver is the receive side of a byte channel.
// Receive never blocks: it reports false when nothing has arrived.
// Each arrived byte is returned exactly once.
type Receiver interface {
	Receive() (byte, bool)
}

var (
	// ErrNotReady is returned by Send when the channel cannot take a byte.
	ErrNotReady = errors.New("link: channel not ready")

	// ErrClosed is returned by operations on a closed channel.
	ErrClosed = errors.New("link: closed")
)
