// internal/peripheral/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goburrow/modbus"
)

// Client reads and writes single registers on a Modbus I/O module that
// exposes the machine's analog sensor, keypad latch and motor coils.
// Endpoints of the form host:port use Modbus TCP; device paths use RTU.
type Client struct {
	mu      sync.Mutex
	handler closer
	client  modbus.Client
}

type closer interface {
	Close() error
}

// Config is minimal transport config.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration

	// RTU only
	BaudRate int
}

// New creates a client. The connection is opened lazily by the first
// request and re-opened by a later request after transport failure.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("peripheral modbus: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = time.Second
	}

	if isSerialDevice(cfg.Endpoint) {
		h := modbus.NewRTUClientHandler(cfg.Endpoint)
		h.SlaveId = cfg.UnitID
		h.Timeout = cfg.Timeout
		if cfg.BaudRate > 0 {
			h.BaudRate = cfg.BaudRate
		}
		h.DataBits = 8
		h.Parity = "N"
		h.StopBits = 1
		return &Client{handler: h, client: modbus.NewClient(h)}, nil
	}

	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	h.SlaveId = cfg.UnitID
	h.Timeout = cfg.Timeout
	return &Client{handler: h, client: modbus.NewClient(h)}, nil
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadInputRegister reads one FC4 register.
func (c *Client) ReadInputRegister(addr uint16) (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.client.ReadInputRegisters(addr, 1)
	if err != nil {
		return 0, fmt.Errorf("peripheral modbus: read input register %d: %w", addr, err)
	}
	return firstRegister(b)
}

// ReadHoldingRegister reads one FC3 register.
func (c *Client) ReadHoldingRegister(addr uint16) (uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, err := c.client.ReadHoldingRegisters(addr, 1)
	if err != nil {
		return 0, fmt.Errorf("peripheral modbus: read holding register %d: %w", addr, err)
	}
	return firstRegister(b)
}

// WriteSingleRegister writes one FC6 register.
func (c *Client) WriteSingleRegister(addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.client.WriteSingleRegister(addr, value); err != nil {
		return fmt.Errorf("peripheral modbus: write register %d: %w", addr, err)
	}
	return nil
}

func firstRegister(b []byte) (uint16, error) {
	if len(b) < 2 {
		return 0, errors.New("peripheral modbus: short register payload")
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

func isSerialDevice(endpoint string) bool {
	return strings.HasPrefix(endpoint, "/dev/") || strings.HasPrefix(strings.ToUpper(endpoint), "COM")
}
