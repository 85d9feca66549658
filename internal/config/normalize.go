// internal/config/normalize.go
package config

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// ------------------------------------------------------------
	// MACHINE
	// ------------------------------------------------------------

	m := &cfg.Machine
	if m.Name == "" {
		m.Name = DefaultMachineName
	}
	// ASCII already validated; the display and status block hold 16
	if len(m.Name) > MachineNameMaxChars {
		m.Name = m.Name[:MachineNameMaxChars]
	}
	m.PhasesToDispense = orDefault(m.PhasesToDispense, DefaultPhasesToDispense)
	if len(m.Products) == 0 {
		m.Products = DefaultProducts()
	}
	if m.Products[0].ID != 1 {
		m.Products[0], m.Products[1] = m.Products[1], m.Products[0]
	}

	// ------------------------------------------------------------
	// NODE A
	// ------------------------------------------------------------

	a := &cfg.NodeA
	normalizeSerial(&a.Link)
	if a.Remote != nil {
		normalizeSerial(a.Remote)
	}
	if a.Sensor.Threshold == 0 {
		a.Sensor.Threshold = DefaultThreshold
	}
	a.PeriodsMs.Coin = orDefault(a.PeriodsMs.Coin, DefaultCoinPeriodMs)
	a.PeriodsMs.Selection = orDefault(a.PeriodsMs.Selection, DefaultSelectionPeriodMs)
	a.PeriodsMs.Encoder = orDefault(a.PeriodsMs.Encoder, DefaultEncoderPeriodMs)
	a.PeriodsMs.Transmitter = orDefault(a.PeriodsMs.Transmitter, DefaultTransmitterPeriodMs)
	a.ResetWindowTicks = orDefault(a.ResetWindowTicks, DefaultResetWindowTicks)

	// ------------------------------------------------------------
	// NODE B
	// ------------------------------------------------------------

	b := &cfg.NodeB
	normalizeSerial(&b.Link)
	b.PeriodsMs.Dispense = orDefault(b.PeriodsMs.Dispense, DefaultDispensePeriodMs)
	b.PeriodsMs.Display = orDefault(b.PeriodsMs.Display, DefaultDisplayPeriodMs)
	b.PeriodsMs.Receiver = orDefault(b.PeriodsMs.Receiver, DefaultReceiverPeriodMs)
	b.DwellTicks.Welcome = orDefault(b.DwellTicks.Welcome, DefaultWelcomeTicks)
	b.DwellTicks.Insufficient = orDefault(b.DwellTicks.Insufficient, DefaultInsufficientTicks)
	b.DwellTicks.ThankYou = orDefault(b.DwellTicks.ThankYou, DefaultThankYouTicks)

	if s := b.Status; s != nil {
		if s.Transport == "" {
			s.Transport = TransportModbus
		}
		s.TimeoutMs = orDefault(s.TimeoutMs, DefaultStatusTimeoutMs)
		s.IntervalMs = orDefault(s.IntervalMs, DefaultStatusInterval)
	}

	// ------------------------------------------------------------
	// AMBIENT
	// ------------------------------------------------------------

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

func normalizeSerial(s *SerialConfig) {
	s.BaudRate = orDefault(s.BaudRate, DefaultBaudRate)
	s.DataBits = orDefault(s.DataBits, 8)
	s.StopBits = orDefault(s.StopBits, 1)
	if s.Parity == "" {
		s.Parity = "N"
	}
}
