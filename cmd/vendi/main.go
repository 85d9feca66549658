// cmd/vendi/main.go
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/minivendi/internal/config"
	"github.com/tamzrod/minivendi/internal/display"
	"github.com/tamzrod/minivendi/internal/link"
	"github.com/tamzrod/minivendi/internal/logging"
	"github.com/tamzrod/minivendi/internal/metrics"
	"github.com/tamzrod/minivendi/internal/nodea"
	"github.com/tamzrod/minivendi/internal/nodeb"
	"github.com/tamzrod/minivendi/internal/peripheral"
	pmodbus "github.com/tamzrod/minivendi/internal/peripheral/modbus"
	"github.com/tamzrod/minivendi/internal/sched"
	"github.com/tamzrod/minivendi/internal/sim"
	"github.com/tamzrod/minivendi/internal/status"
	"github.com/tamzrod/minivendi/internal/writer"
)

const usage = "usage: vendi <node-a|node-b|sim> <config.yaml>"

func main() {
	if len(os.Args) < 3 {
		log.Fatal(usage)
	}

	mode, cfgPath := os.Args[1], os.Args[2]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("logger build failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveMetrics(ctx, cfg.Metrics, logger)

	logger.Info("starting", zap.String("mode", mode), zap.String("machine", cfg.Machine.Name))

	switch mode {
	case "node-a":
		err = runNodeA(ctx, cfg, logger)
	case "node-b":
		err = runNodeB(ctx, cfg, logger)
	case "sim":
		err = runSim(ctx, cfg, logger)
	default:
		logger.Fatal(usage, zap.String("mode", mode))
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("stopped", zap.Error(err))
	}
	logger.Info("stopped")
}

// --------------------
// node A
// --------------------

func runNodeA(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a := cfg.NodeA
	if a.Sensor.Modbus == nil {
		return errors.New("node_a.sensor.modbus required")
	}
	if a.Keypad.Modbus == nil {
		return errors.New("node_a.keypad.modbus required")
	}

	out, err := openSerial(a.Link, "node_a.link", logger)
	if err != nil {
		return err
	}
	defer out.Close()

	io := nodea.IO{Link: out}

	if a.Remote != nil {
		remote, err := openSerial(*a.Remote, "node_a.remote", logger)
		if err != nil {
			return err
		}
		defer remote.Close()
		io.Remote = remote
	}

	clients := newModbusClients()
	defer clients.Close()

	sensor, err := clients.get(*a.Sensor.Modbus)
	if err != nil {
		return err
	}
	keypad, err := clients.get(*a.Keypad.Modbus)
	if err != nil {
		return err
	}
	io.Sensor = peripheral.NewModbusSensor(sensor, a.Sensor.Modbus.Register)
	io.Keypad = peripheral.NewModbusKeypad(keypad, a.Keypad.Modbus.Register)

	// raw sensor readings are only worth logging at debug
	var diag *display.Console
	if logger.Core().Enabled(zapcore.DebugLevel) {
		diag = display.NewConsole("diag", logger.Named("a"))
		io.Display = diag
	}

	node, err := nodea.New(nodea.BuildConfig(a), io, logger.Named("a"))
	if err != nil {
		return err
	}

	s, err := sched.New(node.Tasks()...)
	if err != nil {
		return err
	}
	if diag != nil {
		if err := s.Add(sched.Task{Name: "a.diag", Period: time.Second, Tick: diag.Flush}); err != nil {
			return err
		}
	}

	return s.Run(ctx)
}

// --------------------
// node B
// --------------------

func runNodeB(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	b := cfg.NodeB

	in, err := openSerial(b.Link, "node_b.link", logger)
	if err != nil {
		return err
	}
	defer in.Close()

	lcd := display.NewConsole("lcd", logger.Named("b"))
	io := nodeb.IO{Link: in, Display: lcd}

	if b.Motor.Modbus != nil {
		clients := newModbusClients()
		defer clients.Close()

		cli, err := clients.get(*b.Motor.Modbus)
		if err != nil {
			return err
		}
		motorLog := logger.Named("motor")
		io.Actuator = peripheral.NewModbusMotor(cli, b.Motor.Modbus.Register, func(err error) {
			motorLog.Warn("coil write failed", zap.Error(err))
		})
	}

	bcfg, err := nodeb.BuildConfig(cfg.Machine, b)
	if err != nil {
		return err
	}
	node, err := nodeb.New(bcfg, io, logger.Named("b"))
	if err != nil {
		return err
	}

	s, err := sched.New(node.Tasks()...)
	if err != nil {
		return err
	}
	if err := s.Add(sched.Task{Name: "b.lcd", Period: bcfg.Periods.Display, Tick: lcd.Flush}); err != nil {
		return err
	}

	closeStatus, err := startStatus(ctx, cfg, s, node.Status, logger)
	if err != nil {
		return err
	}
	defer closeStatus()

	return s.Run(ctx)
}

// --------------------
// simulation
// --------------------

func runSim(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	lcd := display.NewConsole("lcd", logger.Named("b"))

	m, err := sim.New(cfg, sim.Options{DisplayB: lcd, Log: logger})
	if err != nil {
		return err
	}
	if err := m.Sched.Add(sched.Task{
		Name:   "b.lcd",
		Period: time.Duration(cfg.NodeB.PeriodsMs.Display) * time.Millisecond,
		Tick:   lcd.Flush,
	}); err != nil {
		return err
	}

	closeStatus, err := startStatus(ctx, cfg, m.Sched, m.B.Status, logger)
	if err != nil {
		return err
	}
	defer closeStatus()

	go readCommands(ctx, m, logger)

	fmt.Fprintln(os.Stderr, "commands: c (coin), 1, 2 (keypad), r1, r2 (remote)")
	return m.Run(ctx)
}

func readCommands(ctx context.Context, m *sim.Machine, logger *zap.Logger) {
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if ctx.Err() != nil {
			return
		}
		cmd := strings.TrimSpace(sc.Text())
		if cmd == "" {
			continue
		}
		if err := m.Command(cmd); err != nil {
			logger.Warn("bad command", zap.Error(err))
		}
	}
}

// --------------------
// shared plumbing
// --------------------

// startStatus publishes node B snapshots when a status block is configured.
// Sampling runs on the node's scheduler; delivery runs on its own goroutine.
func startStatus(ctx context.Context, cfg *config.Config, s *sched.Scheduler, snap func() status.Snapshot, logger *zap.Logger) (func() error, error) {
	sc := cfg.NodeB.Status
	if sc == nil {
		return func() error { return nil }, nil
	}

	sw, closeWriter, err := writer.Build(cfg.Machine.Name, *sc)
	if err != nil {
		return nil, fmt.Errorf("status writer: %w", err)
	}

	pub := writer.NewPublisher(sw, logger.Named("status"))
	go pub.Run(ctx)

	if err := s.Add(sched.Task{
		Name:   "b.status",
		Period: time.Duration(sc.IntervalMs) * time.Millisecond,
		Tick:   func() { pub.Offer(snap()) },
	}); err != nil {
		_ = closeWriter()
		return nil, err
	}

	logger.Info("status export enabled",
		zap.String("transport", sc.Transport),
		zap.String("endpoint", sc.Endpoint),
		zap.Int("unit_id", sc.UnitID),
		zap.Uint16("base_slot", sc.BaseSlot),
	)
	return closeWriter, nil
}

func serveMetrics(ctx context.Context, mc config.MetricsConfig, logger *zap.Logger) {
	if mc.Listen == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle(mc.Path, metrics.Handler())
	srv := &http.Server{Addr: mc.Listen, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("metrics listening", zap.String("addr", mc.Listen), zap.String("path", mc.Path))
}

func openSerial(c config.SerialConfig, where string, logger *zap.Logger) (*link.SerialPort, error) {
	if c.Address == "" {
		return nil, fmt.Errorf("%s: address required", where)
	}
	return link.OpenSerial(link.SerialConfig{
		Address:  c.Address,
		BaudRate: c.BaudRate,
		DataBits: c.DataBits,
		StopBits: c.StopBits,
		Parity:   c.Parity,
		Timeout:  time.Duration(c.TimeoutMs) * time.Millisecond,
	}, logger.Named("link"))
}

// modbusClients shares one client per endpoint and unit, so inputs on the
// same I/O module use one connection.
type modbusClients struct {
	byKey map[string]*pmodbus.Client
}

func newModbusClients() *modbusClients {
	return &modbusClients{byKey: map[string]*pmodbus.Client{}}
}

func (m *modbusClients) get(r config.ModbusRegisterConfig) (*pmodbus.Client, error) {
	key := fmt.Sprintf("%s|%d", r.Endpoint, r.UnitID)
	if c, ok := m.byKey[key]; ok {
		return c, nil
	}
	c, err := pmodbus.New(pmodbus.Config{
		Endpoint: r.Endpoint,
		UnitID:   r.UnitID,
		Timeout:  time.Duration(r.TimeoutMs) * time.Millisecond,
		BaudRate: r.BaudRate,
	})
	if err != nil {
		return nil, err
	}
	m.byKey[key] = c
	return c, nil
}

func (m *modbusClients) Close() {
	for _, c := range m.byKey {
		_ = c.Close()
	}
}
