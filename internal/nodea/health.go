// internal/nodea/health.go
package nodea

import "go.uber.org/zap"

// inputHealth logs only the edges of a failing input, not every failed read.
type inputHealth struct {
	what    string
	failing bool
}

func (h *inputHealth) fail(log *zap.Logger, err error) {
	if h.failing {
		return
	}
	h.failing = true
	log.Warn("input degraded", zap.String("input", h.what), zap.Error(err))
}

func (h *inputHealth) ok(log *zap.Logger) {
	if !h.failing {
		return
	}
	h.failing = false
	log.Info("input recovered", zap.String("input", h.what))
}
