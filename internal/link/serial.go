// internal/link/serial.go
package link

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goburrow/serial"
	"go.uber.org/zap"
)

// SerialConfig is the UART configuration of one serial channel.
type SerialConfig struct {
	Address  string
	BaudRate int
	DataBits int
	StopBits int
	Parity   string
	Timeout  time.Duration

	// RxBuffer bounds bytes read from the line but not yet consumed.
	RxBuffer int
}

const (
	defaultReadTimeout = 100 * time.Millisecond
	defaultRxBuffer    = 64
	readRetryDelay     = 250 * time.Millisecond
)

// SerialPort adapts a goburrow serial port to Sender and Receiver.
// A reader goroutine moves received bytes into a bounded buffer; Send
// writes synchronously.
type SerialPort struct {
	address string
	port    serial.Port
	log     *zap.Logger

	wmu sync.Mutex
	rx  chan byte

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// OpenSerial opens the port and starts its reader.
func OpenSerial(cfg SerialConfig, log *zap.Logger) (*SerialPort, error) {
	if cfg.Address == "" {
		return nil, errors.New("link serial: address required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultReadTimeout
	}
	if cfg.RxBuffer <= 0 {
		cfg.RxBuffer = defaultRxBuffer
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("link serial: open %s: %w", cfg.Address, err)
	}

	p := &SerialPort{
		address: cfg.Address,
		port:    port,
		log:     log.With(zap.String("port", cfg.Address)),
		rx:      make(chan byte, cfg.RxBuffer),
		done:    make(chan struct{}),
	}

	p.wg.Add(1)
	go p.readLoop()

	return p, nil
}

// Ready reports whether the port is open. Writes are synchronous, so an
// open port can always take the next byte.
func (p *SerialPort) Ready() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

func (p *SerialPort) Send(b byte) error {
	if !p.Ready() {
		return ErrClosed
	}

	p.wmu.Lock()
	defer p.wmu.Unlock()

	n, err := p.port.Write([]byte{b})
	if err != nil {
		return fmt.Errorf("link serial: write %s: %w", p.address, err)
	}
	if n != 1 {
		return fmt.Errorf("link serial: short write on %s", p.address)
	}
	return nil
}

func (p *SerialPort) Receive() (byte, bool) {
	select {
	case b := <-p.rx:
		return b, true
	default:
		return 0, false
	}
}

// Close stops the reader and closes the port.
func (p *SerialPort) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.done)
		err = p.port.Close()
		p.wg.Wait()
	})
	return err
}

func (p *SerialPort) readLoop() {
	defer p.wg.Done()

	var buf [32]byte
	for {
		n, err := p.port.Read(buf[:])

		for i := 0; i < n; i++ {
			select {
			case p.rx <- buf[i]:
			case <-p.done:
				return
			}
		}

		if err == nil {
			continue
		}

		select {
		case <-p.done:
			return
		default:
		}

		// timeouts are routine on an idle line
		if errors.Is(err, serial.ErrTimeout) {
			continue
		}
		p.log.Warn("serial read failed", zap.Error(err))

		select {
		case <-p.done:
			return
		case <-time.After(readRetryDelay):
		}
	}
}
