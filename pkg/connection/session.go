package connection

import "github.com/neewerctl/neewerctl/pkg/transport"

// Session is the live GATT session installed on a fixture.Descriptor once
// the Connection Manager connects it. It implements fixture.Session and
// additionally exposes the underlying transport.Conn for the Delivery Engine
// and Status Querier to write/subscribe through.
type Session struct {
	conn transport.Conn
}

// Conn returns the underlying transport connection.
func (s *Session) Conn() transport.Conn { return s.conn }

// Close tears down the underlying transport connection. Idempotent: calling
// Close more than once is safe, matching transport.Conn's own contract.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// IsConnected reports whether the underlying transport still reports
// connected.
func (s *Session) IsConnected() bool {
	return s.conn != nil && s.conn.Connected()
}
