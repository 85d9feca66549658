// internal/peripheral/sim.go
package peripheral

import "sync"

// SimConfig shapes the simulated inputs. Durations are counted in reads,
// so behaviour is deterministic under a virtual clock.
type SimConfig struct {
	IdleReading    uint16 // empty beam
	BlockedReading uint16 // coin in the beam
	CoinSamples    int    // sensor reads a passing coin stays visible
	KeyReads       int    // keypad reads a press stays held
}

// DefaultSimConfig matches the 5 ms sensor period: a coin stays visible
// for 100 ms. A press is seen by exactly one keypad read.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		IdleReading:    1000,
		BlockedReading: 200,
		CoinSamples:    20,
		KeyReads:       1,
	}
}

// Sim is a scripted sensor, keypad and remote command channel.
// Commands may come from any goroutine; reads come from the scheduler.
type Sim struct {
	cfg SimConfig

	mu       sync.Mutex
	coinLeft int
	key      byte
	keyLeft  int
	remote   []byte
}

func NewSim(cfg SimConfig) *Sim {
	if cfg.CoinSamples <= 0 {
		cfg.CoinSamples = 1
	}
	if cfg.KeyReads <= 0 {
		cfg.KeyReads = 1
	}
	return &Sim{cfg: cfg}
}

// InsertCoin makes the next CoinSamples sensor reads see a coin.
func (s *Sim) InsertCoin() {
	s.mu.Lock()
	s.coinLeft = s.cfg.CoinSamples
	s.mu.Unlock()
}

// Press holds tok on the keypad for the next KeyReads reads.
func (s *Sim) Press(tok byte) {
	s.mu.Lock()
	s.key = tok
	s.keyLeft = s.cfg.KeyReads
	s.mu.Unlock()
}

// SendRemote queues tok on the remote command channel.
func (s *Sim) SendRemote(tok byte) {
	s.mu.Lock()
	s.remote = append(s.remote, tok)
	s.mu.Unlock()
}

func (s *Sim) Sample() (uint16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.coinLeft > 0 {
		s.coinLeft--
		return s.cfg.BlockedReading, nil
	}
	return s.cfg.IdleReading, nil
}

func (s *Sim) Key() (byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keyLeft > 0 {
		s.keyLeft--
		return s.key, nil
	}
	return NoKey, nil
}

// Receive implements link.Receiver for the remote command channel.
func (s *Sim) Receive() (byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.remote) == 0 {
		return 0, false
	}
	b := s.remote[0]
	s.remote = s.remote[1:]
	return b, true
}
