// internal/display/console.go
package display

import "go.uber.org/zap"

// Console is an LCD whose contents are mirrored to the log when they change.
// Flush is driven by the node scheduler so intermediate states of a
// clear+write sequence are never logged.
type Console struct {
	*LCD

	name string
	log  *zap.Logger
	last string
}

func NewConsole(name string, log *zap.Logger) *Console {
	if log == nil {
		log = zap.NewNop()
	}
	return &Console{LCD: NewLCD(), name: name, log: log}
}

// Flush logs the display if it changed since the previous flush.
func (c *Console) Flush() {
	cur := c.String()
	if cur == c.last {
		return
	}
	c.last = cur
	c.log.Info("display",
		zap.String("display", c.name),
		zap.String("line1", c.Line(1)),
		zap.String("line2", c.Line(2)),
	)
}
