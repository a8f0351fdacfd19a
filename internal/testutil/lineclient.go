// Package testutil provides helpers for integration testing the server
// over real sockets.
package testutil

import (
	"fmt"
	"net"
	"strings"
	"testing"
	"time"
)

// LineClient is a simple line-oriented TCP test client.
type LineClient struct {
	conn net.Conn
	t    *testing.T
}

// NewLineClient dials the given address and returns a test client.
//
// Precondition: addr must be a valid "host:port" string with a listening server.
// Postcondition: Returns a connected LineClient or fails the test.
func NewLineClient(t *testing.T, addr string) *LineClient {
	t.Helper()

	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		t.Fatalf("connecting to %s: %v", addr, err)
	}

	t.Cleanup(func() {
		conn.Close()
	})

	return &LineClient{
		conn: conn,
		t:    t,
	}
}

// ReadUntil reads data until the specified substring is found or timeout
// occurs. It returns all data read up to and including the match.
//
// Precondition: substr must be non-empty.
// Postcondition: Returns the accumulated output containing substr, or fails on timeout.
func (c *LineClient) ReadUntil(substr string, timeout time.Duration) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(timeout))

	var buf strings.Builder
	tmp := make([]byte, 1024)
	for {
		n, err := c.conn.Read(tmp)
		if n > 0 {
			buf.Write(tmp[:n])
			if strings.Contains(buf.String(), substr) {
				return buf.String()
			}
		}
		if err != nil {
			c.t.Fatalf("reading until %q: got %q, error: %v", substr, buf.String(), err)
		}
	}
}

// Send writes a line of text to the server, appending \n.
//
// Precondition: text should not contain trailing newline characters.
// Postcondition: text + \n is written to the connection.
func (c *LineClient) Send(text string) {
	c.t.Helper()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_, err := fmt.Fprintf(c.conn, "%s\n", text)
	if err != nil {
		c.t.Fatalf("sending %q: %v", text, err)
	}
}

// Close closes the underlying connection. Closing twice is harmless.
func (c *LineClient) Close() {
	c.conn.Close()
}
