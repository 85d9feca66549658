// internal/nodea/machines_test.go
package nodea

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tamzrod/minivendi/internal/protocol"
)

// ---- CoinSensor ----

func TestCoinSensor_ThresholdInclusive(t *testing.T) {
	shared := &Shared{Coin: true}
	s := &fakeSampler{v: 900}
	diag := &fakeDisplay{}
	m := NewCoinSensor(shared, s, 900, diag, zap.NewNop())

	m.Tick() // Init clears the flag
	assert.False(t, shared.Coin)
	assert.Equal(t, coinRead, m.state)

	m.Tick()
	assert.True(t, shared.Coin, "reading equal to threshold is a coin")

	s.v = 901
	m.Tick()
	assert.False(t, shared.Coin)

	s.v = 120
	m.Tick()
	assert.True(t, shared.Coin)
	assert.Equal(t, coinRead, m.state)

	require.NotEmpty(t, diag.writes)
	assert.Equal(t, "120  ", diag.writes[len(diag.writes)-1])
}

func TestCoinSensor_CountsRisingEdges(t *testing.T) {
	shared := &Shared{}
	s := &fakeSampler{v: 1000}
	m := NewCoinSensor(shared, s, 900, nil, zap.NewNop())

	m.Tick() // Init
	m.Tick()
	require.Zero(t, shared.CoinEdges)

	// a coin held in the beam is one coin
	s.v = 100
	for i := 0; i < 20; i++ {
		m.Tick()
	}
	assert.Equal(t, uint32(1), shared.CoinEdges)

	s.v = 1000
	m.Tick()
	s.v = 100
	m.Tick()
	assert.Equal(t, uint32(2), shared.CoinEdges)
}

func TestCoinSensor_ReadErrorKeepsFlag(t *testing.T) {
	shared := &Shared{}
	s := &fakeSampler{v: 100}
	m := NewCoinSensor(shared, s, 900, nil, zap.NewNop())

	m.Tick()
	m.Tick()
	require.True(t, shared.Coin)

	s.err = errors.New("adc offline")
	m.Tick()
	assert.True(t, shared.Coin)

	s.err = nil
	m.Tick()
	assert.Equal(t, uint32(1), shared.CoinEdges, "a failed read is not an edge")

	s.v = 1000
	m.Tick()
	assert.False(t, shared.Coin)
}

// ---- SelectionInput ----

func TestNextSelection(t *testing.T) {
	cases := []struct {
		name string
		from selectionState
		in   selectionInputs
		want selectionState
	}{
		{"init", selInit, selectionInputs{}, selReceive},
		{"idle", selReceive, selectionInputs{}, selReceive},
		{"key1", selReceive, selectionInputs{key: '1'}, selSelect1},
		{"remote2", selReceive, selectionInputs{remote: '2'}, selSelect2},
		{"conflict prefers 1", selReceive, selectionInputs{key: '2', remote: '1'}, selSelect1},
		{"conflict prefers 1 (swapped)", selReceive, selectionInputs{key: '1', remote: '2'}, selSelect1},
		{"garbage", selReceive, selectionInputs{key: '9', remote: 'x'}, selReceive},
		{"select1 blocks", selSelect1, selectionInputs{}, selBlocked},
		{"select2 blocks", selSelect2, selectionInputs{key: '1'}, selBlocked},
		{"blocked holds", selBlocked, selectionInputs{key: '1'}, selBlocked},
		{"blocked released", selBlocked, selectionInputs{released: true}, selReceive},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, nextSelection(c.from, c.in))
		})
	}
}

func TestSelectionInput_LatchBlockRelease(t *testing.T) {
	shared := &Shared{}
	kp := &fakeKeypad{}
	m := NewSelectionInput(shared, kp, nil, zap.NewNop())

	m.Tick() // Init
	m.Tick() // Receive, nothing held
	assert.Equal(t, selReceive, m.state)

	kp.held = '2'
	m.Tick() // Receive sees '2'
	assert.Equal(t, selSelect2, m.state)
	assert.Equal(t, protocol.NoProduct, shared.Latch.Selection)

	kp.held = 0
	m.Tick() // Select2 latches
	assert.Equal(t, selBlocked, m.state)
	assert.Equal(t, Latch{Selection: protocol.Product2, Seq: 1}, shared.Latch)

	// a new press while blocked is ignored
	kp.held = '1'
	for i := 0; i < 5; i++ {
		m.Tick()
	}
	assert.Equal(t, selBlocked, m.state)
	assert.Equal(t, protocol.Product2, shared.Latch.Selection)

	// reset for a different latch does not release
	shared.Handshake = Handshake{Reset: true, Acked: 0}
	m.Tick()
	assert.Equal(t, selBlocked, m.state)

	// acknowledged but window over: not released either
	shared.Handshake = Handshake{Reset: false, Acked: 1}
	m.Tick()
	assert.Equal(t, selBlocked, m.state)

	shared.Handshake = Handshake{Reset: true, Acked: 1}
	kp.held = 0
	m.Tick()
	assert.Equal(t, selReceive, m.state)
	assert.Equal(t, protocol.NoProduct, shared.Latch.Selection)
	assert.Equal(t, uint32(1), shared.Latch.Seq)
}

func TestSelectionInput_RemoteChannelAndKeypadError(t *testing.T) {
	shared := &Shared{}
	kp := &fakeKeypad{err: errors.New("bus fault")}
	remote := &fakeRemote{queue: []byte{'1'}}
	m := NewSelectionInput(shared, kp, remote, zap.NewNop())

	m.Tick() // Init
	m.Tick() // Receive: remote '1', keypad failing
	assert.Equal(t, selSelect1, m.state)

	m.Tick()
	assert.Equal(t, protocol.Product1, shared.Latch.Selection)
}

// ---- DecisionEncoder ----

func TestDecisionEncoder(t *testing.T) {
	shared := &Shared{Encoded: Encoded{Byte: 0x07}}
	m := NewDecisionEncoder(shared, zap.NewNop())

	m.Tick()
	assert.Equal(t, Encoded{}, shared.Encoded)

	shared.Coin = true
	shared.CoinEdges = 1
	m.Tick()
	assert.Equal(t, Encoded{Byte: 0x01, CoinSeq: 1}, shared.Encoded)

	shared.Latch = Latch{Selection: protocol.Product2, Seq: 4}
	m.Tick()
	assert.Equal(t, Encoded{Byte: 0x05, LatchSeq: 4, CoinSeq: 1}, shared.Encoded)

	shared.Coin = false
	shared.Latch.Selection = protocol.NoProduct
	m.Tick()
	assert.Equal(t, protocol.ControlByte(0x01), shared.Encoded.Byte, "coin gone but not yet sent")

	shared.Handshake.CoinAcked = 1
	m.Tick()
	assert.Equal(t, protocol.ControlByte(0x00), shared.Encoded.Byte)
	assert.Equal(t, encUpdate, m.state)
}

func TestDecisionEncoder_OwesOneCoinAtATime(t *testing.T) {
	shared := &Shared{CoinEdges: 3, Handshake: Handshake{CoinAcked: 1}}
	m := NewDecisionEncoder(shared, zap.NewNop())

	m.Tick() // Init
	m.Tick()
	assert.Equal(t, Encoded{Byte: 0x01, CoinSeq: 2}, shared.Encoded)

	shared.Handshake.CoinAcked = 2
	m.Tick()
	assert.Equal(t, Encoded{Byte: 0x01, CoinSeq: 3}, shared.Encoded)

	shared.Handshake.CoinAcked = 3
	m.Tick()
	assert.Equal(t, Encoded{}, shared.Encoded)
}

// ---- LinkTransmitter ----

func newTestTransmitter(window int) (*LinkTransmitter, *Shared, *fakeSender) {
	shared := &Shared{}
	out := &fakeSender{ready: true}
	return NewLinkTransmitter(shared, out, window, zap.NewNop()), shared, out
}

func TestLinkTransmitter_SendsOncePerChange(t *testing.T) {
	m, shared, out := newTestTransmitter(3)

	m.Tick() // Init
	m.Tick() // CheckUpdate, nothing changed
	assert.Empty(t, out.sent)
	assert.Equal(t, txCheckUpdate, m.state)

	shared.Encoded = Encoded{Byte: 0x01, CoinSeq: 1}
	m.Tick() // change detected
	assert.Equal(t, txTransmit, m.state)
	m.Tick() // send
	assert.Equal(t, []byte{0x01}, out.sent)
	assert.Equal(t, txResetWindow, m.state)
	assert.True(t, shared.Handshake.Reset)
	assert.Equal(t, protocol.ControlByte(0x01), shared.Handshake.Sent)
	assert.Equal(t, uint32(1), shared.Handshake.CoinAcked)

	for i := 0; i < 3; i++ {
		m.Tick()
	}
	assert.Equal(t, txCheckUpdate, m.state)
	assert.False(t, shared.Handshake.Reset)

	shared.Encoded = Encoded{}
	m.Tick()
	m.Tick()
	require.Equal(t, []byte{0x01, 0x00}, out.sent)

	// unchanged byte is not sent again
	for i := 0; i < 20; i++ {
		m.Tick()
	}
	assert.Equal(t, []byte{0x01, 0x00}, out.sent)
	assert.Equal(t, uint64(2), shared.Handshake.Sends)
}

func TestLinkTransmitter_AcknowledgedCoinNeverResent(t *testing.T) {
	m, shared, out := newTestTransmitter(1)

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x01, CoinSeq: 1}
	m.Tick() // -> Transmit
	m.Tick() // send 0x01
	m.Tick() // window done
	require.Equal(t, txCheckUpdate, m.state)

	// the encoder has not caught up yet: the stale coin is not sent again
	for i := 0; i < 4; i++ {
		m.Tick()
	}
	assert.Equal(t, []byte{0x01, 0x00}, out.sent)
}

func TestLinkTransmitter_BackToBackCoinsAreTwoSends(t *testing.T) {
	m, shared, out := newTestTransmitter(1)

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x01, CoinSeq: 1}
	m.Tick()
	m.Tick() // send
	m.Tick() // window

	// a second coin was counted during the window
	shared.Encoded = Encoded{Byte: 0x01, CoinSeq: 2}
	m.Tick()
	m.Tick()
	assert.Equal(t, []byte{0x01, 0x01}, out.sent)
	assert.Equal(t, uint32(2), shared.Handshake.CoinAcked)
}

func TestLinkTransmitter_ResetWindowLength(t *testing.T) {
	m, shared, _ := newTestTransmitter(10)

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x02, LatchSeq: 1}
	m.Tick() // CheckUpdate -> Transmit
	m.Tick() // Transmit -> ResetWindow
	require.True(t, shared.Handshake.Reset)

	for i := 0; i < 9; i++ {
		m.Tick()
		require.Equal(t, txResetWindow, m.state, "tick %d", i+1)
		require.True(t, shared.Handshake.Reset)
	}
	m.Tick()
	assert.Equal(t, txCheckUpdate, m.state)
	assert.False(t, shared.Handshake.Reset)
}

func TestLinkTransmitter_StallsUntilReady(t *testing.T) {
	m, shared, out := newTestTransmitter(2)
	out.ready = false

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x01, CoinSeq: 1}
	m.Tick()
	for i := 0; i < 50; i++ {
		m.Tick()
	}
	assert.Equal(t, txTransmit, m.state)
	assert.Empty(t, out.sent)
	assert.False(t, shared.Handshake.Reset)

	// a failing send is not a send
	out.ready = true
	out.fail = true
	m.Tick()
	assert.Equal(t, txTransmit, m.state)

	out.fail = false
	m.Tick()
	assert.Equal(t, []byte{0x01}, out.sent)
	assert.Equal(t, txResetWindow, m.state)
}

func TestLinkTransmitter_AcknowledgedSelectionNeverResent(t *testing.T) {
	m, shared, out := newTestTransmitter(1)

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x02, LatchSeq: 1}
	m.Tick() // -> Transmit
	m.Tick() // send 0x02
	m.Tick() // window done
	require.Equal(t, txCheckUpdate, m.state)
	require.Equal(t, uint32(1), shared.Handshake.Acked)

	// latch not yet released: the selection must not go out twice
	m.Tick()
	m.Tick()
	m.Tick()
	m.Tick()
	assert.Equal(t, []byte{0x02, 0x00}, out.sent)
}

func TestLinkTransmitter_SameProductTwiceIsTwoSends(t *testing.T) {
	m, shared, out := newTestTransmitter(1)

	m.Tick()
	shared.Encoded = Encoded{Byte: 0x02, LatchSeq: 1}
	m.Tick()
	m.Tick() // send
	m.Tick() // window

	// released and re-selected before the encoder ever showed 0x00
	shared.Encoded = Encoded{Byte: 0x02, LatchSeq: 2}
	m.Tick()
	m.Tick()
	assert.Equal(t, []byte{0x02, 0x02}, out.sent)
	assert.Equal(t, uint32(2), shared.Handshake.Acked)
}

func TestNextTransmit(t *testing.T) {
	assert.Equal(t, txCheckUpdate, nextTransmit(txInit, transmitInputs{}))
	assert.Equal(t, txCheckUpdate, nextTransmit(txCheckUpdate, transmitInputs{}))
	assert.Equal(t, txTransmit, nextTransmit(txCheckUpdate, transmitInputs{changed: true}))
	assert.Equal(t, txTransmit, nextTransmit(txTransmit, transmitInputs{}))
	assert.Equal(t, txResetWindow, nextTransmit(txTransmit, transmitInputs{sent: true}))
	assert.Equal(t, txResetWindow, nextTransmit(txResetWindow, transmitInputs{}))
	assert.Equal(t, txCheckUpdate, nextTransmit(txResetWindow, transmitInputs{windowDone: true}))
	assert.Equal(t, txInit, nextTransmit(transmitState(99), transmitInputs{}))
}
