// internal/nodeb/builder_test.go
package nodeb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cfg "github.com/tamzrod/minivendi/internal/config"
	"github.com/tamzrod/minivendi/internal/protocol"
)

func TestBuildConfig_FromDefaults(t *testing.T) {
	c := &cfg.Config{}
	require.NoError(t, cfg.Validate(c))
	cfg.Normalize(c)

	got, err := BuildConfig(c.Machine, c.NodeB)
	require.NoError(t, err)

	assert.Equal(t, "MiniVendi", got.Name)
	assert.Equal(t, 2048, got.PhasesToDispense)
	assert.Equal(t, [2]protocol.StepSequence{seq1, seq2}, got.Sequences)
	assert.Equal(t, Dwell{Welcome: 40, Insufficient: 60, ThankYou: 60}, got.Dwell)
	assert.Equal(t, 3*time.Millisecond, got.Periods.Dispense)

	p2, err := got.Prices.Price(protocol.Product2)
	require.NoError(t, err)
	assert.Equal(t, 2, p2)
}

func TestBuildConfig_RejectsUnnormalized(t *testing.T) {
	_, err := BuildConfig(cfg.MachineConfig{}, cfg.NodeBConfig{})
	assert.Error(t, err, "no prices")

	_, err = BuildConfig(cfg.MachineConfig{Products: []cfg.ProductConfig{{ID: 1, Price: 1, Sequence: []uint8{1}}}}, cfg.NodeBConfig{})
	assert.Error(t, err)
}
