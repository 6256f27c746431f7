// internal/writer/ingest/client.go
package ingest

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"time"
)

// Raw Ingest v1 packet, big-endian:
//
//	0..1   magic "RI"
//	2      version
//	3      area (always holding registers here)
//	4..5   unit id
//	6..7   address
//	8..9   register count
//	10..   registers
//
// The receiver answers every packet with one status byte.
const (
	headerLen = 10

	magic     uint16 = 0x5249
	versionV1 byte   = 0x01

	areaHoldingRegisters byte = 3

	respOK       byte = 0x00
	respRejected byte = 0x01
)

// ErrRejected is returned when the receiver refuses a packet.
var ErrRejected = errors.New("writer ingest: rejected")

// EndpointClient sends Raw Ingest v1 packets.
// 1 packet = 1 connection: the receiver answers and closes.
type EndpointClient struct {
	endpoint string
	timeout  time.Duration
}

type Config struct {
	Endpoint string
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("writer ingest: endpoint required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	return &EndpointClient{
		endpoint: cfg.Endpoint,
		timeout:  cfg.Timeout,
	}, nil
}

// Close is a no-op; no connection outlives a packet.
func (c *EndpointClient) Close() error { return nil }

// WriteRegisters implements writer.Client.
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	payload := make([]byte, 2*len(regs))
	for i, r := range regs {
		binary.BigEndian.PutUint16(payload[2*i:], r)
	}

	status, err := c.exchange(buildPacket(unitID, addr, uint16(len(regs)), payload))
	if err != nil {
		return err
	}

	switch status {
	case respOK:
		return nil
	case respRejected:
		return ErrRejected
	default:
		return fmt.Errorf("writer ingest: unknown status 0x%02x", status)
	}
}

// exchange dials, sends pkt and reads the one status byte.
func (c *EndpointClient) exchange(pkt []byte) (byte, error) {
	conn, err := net.DialTimeout("tcp", c.endpoint, c.timeout)
	if err != nil {
		return 0, fmt.Errorf("writer ingest: dial: %w", err)
	}
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(c.timeout))

	if _, err := conn.Write(pkt); err != nil {
		return 0, fmt.Errorf("writer ingest: write: %w", err)
	}

	var resp [1]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return 0, fmt.Errorf("writer ingest: read status: %w", err)
	}
	return resp[0], nil
}

func buildPacket(unitID uint8, addr, count uint16, payload []byte) []byte {
	pkt := make([]byte, headerLen, headerLen+len(payload))

	binary.BigEndian.PutUint16(pkt[0:2], magic)
	pkt[2] = versionV1
	pkt[3] = areaHoldingRegisters
	binary.BigEndian.PutUint16(pkt[4:6], uint16(unitID))
	binary.BigEndian.PutUint16(pkt[6:8], addr)
	binary.BigEndian.PutUint16(pkt[8:10], count)

	return append(pkt, payload...)
}
