package director

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Expected minimum line counts per command. The protocol has no explicit
// message-length framing, so response completeness is inferred from the
// number of newline-delimited lines each command is known to produce.
const (
	minLinesControl = 1
	minLinesInput   = 8
	minLinesSystem  = 17

	readChunkSize = 4096
)

const (
	cmdInputTable  = "INPUT?"
	cmdSystemTable = "SYSTEMstat?"
)

// Client talks to the telnet control port of an AudioControl Director
// M6400/M6800. The protocol is strictly half-duplex with no request
// identifiers: one command must be fully answered before the next is
// written, so the connection is owned exclusively by one Client and all
// operations serialize on its mutex. A Client whose stream failed mid-read
// must be discarded, not reused.
type Client struct {
	address   string
	conn      net.Conn
	mu        sync.Mutex
	timeout   time.Duration
	logger    *zap.Logger
	connected bool
}

func NewClient(address string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		address: address,
		timeout: timeout,
		logger:  logger,
	}
}

// Connect stellt die TCP-Verbindung her
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	conn, err := net.DialTimeout("tcp", c.address, c.timeout)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	c.conn = conn
	c.connected = true

	return nil
}

// Close schließt die Verbindung
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}

	err := c.conn.Close()
	c.connected = false
	c.conn = nil

	return err
}

// send writes the CR-terminated command and reads until minLines
// newline-delimited lines arrived. End-of-stream before that is a
// truncated response: the underlying protocol gives no other completeness
// signal.
func (c *Client) send(ctx context.Context, command string, minLines int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return "", fmt.Errorf("not connected")
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	c.conn.SetWriteDeadline(deadline)
	if _, err := c.conn.Write([]byte(command + "\r")); err != nil {
		return "", fmt.Errorf("write failed: %w", err)
	}

	c.conn.SetReadDeadline(deadline)

	var result strings.Builder
	buf := make([]byte, readChunkSize)
	lineCount := 0

	for lineCount < minLines {
		n, err := c.conn.Read(buf)
		if n > 0 {
			result.Write(buf[:n])
			lineCount += strings.Count(string(buf[:n]), "\n")
		}
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("%w: stream closed after %d of %d lines",
					ErrTruncatedResponse, lineCount, minLines)
			}
			return "", fmt.Errorf("read failed: %w", err)
		}
	}

	return result.String(), nil
}

// control sends an imperative command and checks the response framing. The
// amplifier does not emit the "01" success marker for every accepted
// command, so its absence is not an error; an explicit rejection or a bad
// echo is.
func (c *Client) control(ctx context.Context, command string) error {
	c.logger.Debug("Sending command", zap.String("command", command))

	response, err := c.send(ctx, command, minLinesControl)
	if err != nil {
		return err
	}

	succeeded, _, err := InterpretResponse(command, response, true)
	if err != nil {
		return fmt.Errorf("command %q failed: %w", command, err)
	}
	if !succeeded {
		c.logger.Debug("Command acknowledged without success code",
			zap.String("command", command))
	}
	return nil
}

// MapInputToOutput routes an analog or digital input to an output. Grouped
// outputs are addressed through their group operand.
func (c *Client) MapInputToOutput(ctx context.Context, input InputID, output OutputID) error {
	return c.control(ctx, output.OpString()+"source"+input.ProtocolName)
}

// SetOutputPower switches an output (or its whole group) on or off.
func (c *Client) SetOutputPower(ctx context.Context, output OutputID, on bool) error {
	state := "off"
	if on {
		state = "on"
	}
	return c.control(ctx, output.OpString()+state)
}

// SetOutputVolume sets an output's volume. Values outside 0-100 are
// rejected, not clamped.
func (c *Client) SetOutputVolume(ctx context.Context, output OutputID, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("%w: %d", ErrVolumeOutOfRange, volume)
	}
	return c.control(ctx, fmt.Sprintf("%ssetvol%d", output, volume))
}

// RawInputTable fetches the INPUT? dump body.
func (c *Client) RawInputTable(ctx context.Context) (string, error) {
	return c.dump(ctx, cmdInputTable, minLinesInput)
}

// RawSystemTable fetches the SYSTEMstat? dump body.
func (c *Client) RawSystemTable(ctx context.Context) (string, error) {
	return c.dump(ctx, cmdSystemTable, minLinesSystem)
}

// dump fetches a status dump. Dump responses carry no success marker; the
// body after the echo is the data.
func (c *Client) dump(ctx context.Context, command string, minLines int) (string, error) {
	response, err := c.send(ctx, command, minLines)
	if err != nil {
		return "", err
	}

	_, body, err := InterpretResponse(command, response, false)
	if err != nil {
		return "", fmt.Errorf("command %q failed: %w", command, err)
	}
	return body, nil
}

// GetSystemStatus fetches and parses both status dumps into one snapshot.
// The INPUT? table is fetched first: its analog count anchors the digital
// input indices of the SYSTEMstat? table.
func (c *Client) GetSystemStatus(ctx context.Context) (*SystemStatus, error) {
	inputBody, err := c.RawInputTable(ctx)
	if err != nil {
		return nil, err
	}

	systemBody, err := c.RawSystemTable(ctx)
	if err != nil {
		return nil, err
	}

	return ParseSystemStatus(inputBody, systemBody)
}
