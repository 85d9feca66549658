// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Node A
var (
	ControlBytesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_control_bytes_sent_total",
			Help: "Control bytes transmitted by node A",
		},
	)
	TransmitStalledTicks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_transmit_stalled_ticks_total",
			Help: "Transmitter ticks spent waiting for the link to become ready",
		},
	)
	SelectionsLatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendi_selections_latched_total",
			Help: "Product selections latched by node A",
		},
		[]string{"product"},
	)
	SensorReadErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_sensor_read_errors_total",
			Help: "Failed coin sensor reads",
		},
	)
)

// Node B
var (
	ControlBytesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_control_bytes_received_total",
			Help: "Control bytes consumed by node B",
		},
	)
	MalformedControlBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_control_bytes_malformed_total",
			Help: "Control bytes with reserved bits or both selection bits set",
		},
	)
	CoinsAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_coins_accepted_total",
			Help: "Coins credited to the balance",
		},
	)
	Purchases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendi_purchases_total",
			Help: "Purchase attempts by product and outcome",
		},
		[]string{"product", "outcome"},
	)
	SelectionsRejected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_selections_rejected_total",
			Help: "Selections received while a previous verdict was still pending",
		},
	)
	DispenseSteps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vendi_dispense_steps_total",
			Help: "Stepper phases driven",
		},
		[]string{"product"},
	)
	Balance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vendi_balance_coins",
			Help: "Current balance in coins",
		},
	)
	MotorRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "vendi_motor_running",
			Help: "1 while the dispenser motor is driven",
		},
	)
	StatusWriteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vendi_status_write_errors_total",
			Help: "Failed status block writes",
		},
	)
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
