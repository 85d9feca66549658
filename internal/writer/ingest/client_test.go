// internal/writer/ingest/client_test.go
package ingest

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPacketV1(t *testing.T) {
	pkt := buildPacketV1(3, 7, 0x0102, []uint16{0xABCD, 0x0001})

	want := []byte{
		'R', 'I', 0x01, 0x03,
		0x00, 0x07,
		0x01, 0x02,
		0x00, 0x02,
		0xAB, 0xCD, 0x00, 0x01,
	}
	assert.Equal(t, want, pkt)
}

// pipeDialer hands the client one end of an in-memory connection and
// serves the other end with verdict.
func pipeDialer(t *testing.T, verdict byte, got chan<- []byte) func(string, string, time.Duration) (net.Conn, error) {
	return func(network, addr string, timeout time.Duration) (net.Conn, error) {
		client, server := net.Pipe()
		go func() {
			defer server.Close()
			hdr := make([]byte, headerLen)
			if _, err := io.ReadFull(server, hdr); err != nil {
				return
			}
			n := int(hdr[8])<<8 | int(hdr[9])
			body := make([]byte, 2*n)
			if _, err := io.ReadFull(server, body); err != nil {
				return
			}
			got <- append(hdr, body...)
			_, _ = server.Write([]byte{verdict})
		}()
		return client, nil
	}
}

func TestWriteRegisters_Verdicts(t *testing.T) {
	c, err := NewEndpointClient(Config{Endpoint: "status:9000"})
	require.NoError(t, err)

	got := make(chan []byte, 1)
	c.dial = pipeDialer(t, respOK, got)
	require.NoError(t, c.WriteRegisters(3, 1, 20, []uint16{1, 2, 3}))
	assert.Len(t, <-got, headerLen+6)

	c.dial = pipeDialer(t, respRejected, got)
	assert.EqualError(t, c.WriteRegisters(3, 1, 20, []uint16{1}), "writer ingest: rejected")
	<-got

	c.dial = pipeDialer(t, 0x7F, got)
	assert.Error(t, c.WriteRegisters(3, 1, 20, []uint16{1}))
	<-got
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	_, err := NewEndpointClient(Config{})
	assert.Error(t, err)
}
