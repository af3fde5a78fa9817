package daemon

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// SocketPath returns the default daemon socket path.
func SocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "captains-log", "speech.sock")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".captains-log", "speech.sock")
}

var errClosed = errors.New("connection closed")

// conn is one NDJSON connection to the daemon. A run owns two: one for
// commands and one for the event stream. Commands on one conn are not
// concurrent.
type conn struct {
	nc    net.Conn
	lines *bufio.Scanner
}

func dial(socketPath string, timeout time.Duration) (*conn, error) {
	nc, err := net.DialTimeout("unix", socketPath, timeout)
	if err != nil {
		return nil, fmt.Errorf("connect to daemon: %w", err)
	}
	lines := bufio.NewScanner(nc)
	lines.Buffer(make([]byte, 64*1024), 1024*1024)
	return &conn{nc: nc, lines: lines}, nil
}

func (c *conn) Close() error { return c.nc.Close() }

// call sends cmd and decodes the reply. A reply with ok=false is an error.
func (c *conn) call(cmd Command) (Response, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return Response{}, fmt.Errorf("encode %s: %w", cmd.Cmd, err)
	}
	if _, err := c.nc.Write(append(data, '\n')); err != nil {
		return Response{}, fmt.Errorf("send %s: %w", cmd.Cmd, err)
	}
	var resp Response
	if err := c.decode(&resp); err != nil {
		return Response{}, fmt.Errorf("%s reply: %w", cmd.Cmd, err)
	}
	if !resp.OK {
		return resp, fmt.Errorf("daemon refused %s: %s", cmd.Cmd, resp.Error)
	}
	return resp, nil
}

// next blocks for the next event line.
func (c *conn) next() (Event, error) {
	var ev Event
	if err := c.decode(&ev); err != nil {
		return Event{}, fmt.Errorf("read event: %w", err)
	}
	return ev, nil
}

func (c *conn) decode(v any) error {
	if !c.lines.Scan() {
		if err := c.lines.Err(); err != nil {
			return err
		}
		return errClosed
	}
	return json.Unmarshal(c.lines.Bytes(), v)
}
