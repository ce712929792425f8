package director

import (
	"bufio"
	"context"
	"errors"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

// fakeAmplifier answers scripted responses on a loopback listener. It
// reads CR-terminated commands the way the Director does and records them
// for assertions.
type fakeAmplifier struct {
	t          *testing.T
	ln         net.Listener
	responses  map[string]string
	mu         sync.Mutex
	received   []string
	closeEarly bool
}

func newFakeAmplifier(t *testing.T, responses map[string]string) *fakeAmplifier {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	f := &fakeAmplifier{t: t, ln: ln, responses: responses}
	go f.serve()
	t.Cleanup(func() { ln.Close() })

	return f
}

func (f *fakeAmplifier) serve() {
	conn, err := f.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	for {
		command, err := r.ReadString('\r')
		if err != nil {
			return
		}
		command = strings.TrimSuffix(command, "\r")

		f.mu.Lock()
		f.received = append(f.received, command)
		f.mu.Unlock()

		if f.closeEarly {
			return
		}

		response, ok := f.responses[command]
		if !ok {
			// Default: echo plus success marker, one newline so the
			// client's line counter releases.
			response = command + "\r01" + command + "\r\n"
		}
		if _, err := conn.Write([]byte(response)); err != nil {
			return
		}
	}
}

func (f *fakeAmplifier) lastCommand() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.received) == 0 {
		return ""
	}
	return f.received[len(f.received)-1]
}

func newTestClient(t *testing.T, f *fakeAmplifier) *Client {
	t.Helper()

	c := NewClient(f.ln.Addr().String(), 2*time.Second, zap.NewNop())
	if err := c.Connect(); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return c
}

func TestSetOutputPower(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	c := newTestClient(t, f)

	if err := c.SetOutputPower(context.Background(), AnalogOutput(4), true); err != nil {
		t.Fatalf("SetOutputPower failed: %v", err)
	}
	if got := f.lastCommand(); got != "Z4on" {
		t.Errorf("sent command = %q, want Z4on", got)
	}

	if err := c.SetOutputPower(context.Background(), DigitalOutput('a'), false); err != nil {
		t.Fatalf("SetOutputPower failed: %v", err)
	}
	if got := f.lastCommand(); got != "DXOaoff" {
		t.Errorf("sent command = %q, want DXOaoff", got)
	}
}

func TestSetOutputPowerGrouped(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	c := newTestClient(t, f)

	grouped := OutputID{Zone: 2, Group: 5}
	if err := c.SetOutputPower(context.Background(), grouped, true); err != nil {
		t.Fatalf("SetOutputPower failed: %v", err)
	}
	if got := f.lastCommand(); got != "GRP5on" {
		t.Errorf("sent command = %q, want GRP5on", got)
	}
}

func TestMapInputToOutput(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	c := newTestClient(t, f)

	err := c.MapInputToOutput(context.Background(), DigitalInput(1, 8), AnalogOutput(3))
	if err != nil {
		t.Fatalf("MapInputToOutput failed: %v", err)
	}
	if got := f.lastCommand(); got != "Z3sourceDXa" {
		t.Errorf("sent command = %q, want Z3sourceDXa", got)
	}
}

func TestSetOutputVolume(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	c := newTestClient(t, f)

	if err := c.SetOutputVolume(context.Background(), AnalogOutput(1), 75); err != nil {
		t.Fatalf("SetOutputVolume failed: %v", err)
	}
	if got := f.lastCommand(); got != "Z1setvol75" {
		t.Errorf("sent command = %q, want Z1setvol75", got)
	}

	// Volume always addresses the output itself, never the group.
	grouped := OutputID{Zone: 6, Group: 2}
	if err := c.SetOutputVolume(context.Background(), grouped, 10); err != nil {
		t.Fatalf("SetOutputVolume failed: %v", err)
	}
	if got := f.lastCommand(); got != "Z6setvol10" {
		t.Errorf("sent command = %q, want Z6setvol10", got)
	}
}

func TestSetOutputVolumeOutOfRange(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	c := newTestClient(t, f)

	for _, volume := range []int{-1, 101, 1000} {
		err := c.SetOutputVolume(context.Background(), AnalogOutput(1), volume)
		if !errors.Is(err, ErrVolumeOutOfRange) {
			t.Errorf("volume %d: error = %v, want ErrVolumeOutOfRange", volume, err)
		}
	}
	if got := f.lastCommand(); got != "" {
		t.Errorf("out-of-range volume reached the wire: %q", got)
	}
}

func TestBadCommandResponse(t *testing.T) {
	f := newFakeAmplifier(t, map[string]string{
		"Z1on": "Z1on\rxxZ1onxx\r\n",
	})
	c := newTestClient(t, f)

	err := c.SetOutputPower(context.Background(), AnalogOutput(1), true)
	if !errors.Is(err, ErrBadCommand) {
		t.Errorf("error = %v, want ErrBadCommand", err)
	}
}

func TestEchoMismatchResponse(t *testing.T) {
	f := newFakeAmplifier(t, map[string]string{
		"Z1on": "Z9off\r01Z9off\r\n",
	})
	c := newTestClient(t, f)

	err := c.SetOutputPower(context.Background(), AnalogOutput(1), true)
	var mismatch *EchoMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error = %v, want EchoMismatchError", err)
	}
	if mismatch.Got != "Z9off" {
		t.Errorf("mismatch.Got = %q, want Z9off", mismatch.Got)
	}
}

func TestTruncatedResponse(t *testing.T) {
	f := newFakeAmplifier(t, nil)
	f.closeEarly = true
	c := newTestClient(t, f)

	err := c.SetOutputPower(context.Background(), AnalogOutput(1), true)
	if !errors.Is(err, ErrTruncatedResponse) {
		t.Errorf("error = %v, want ErrTruncatedResponse", err)
	}
}

func TestGetSystemStatus(t *testing.T) {
	rows := []string{
		"Zone 1, 1, on, MX1 & 1, 100, 0, 0, Acoustic and 0, 0, 111 F/Normal, off",
		"Zone 2, 2, on, MX2 & 2, 100, 0, 0, Acoustic and 0, 0, 111 F/Normal, off",
		"Zone 3, 3, on, MX3 & 3, 100, 0, 0, User 3 and 5, 0, 113 F/Normal, off",
		"Zone 4, 4, on, MX4 & 4, 100, 0, 0, unsaved values and -1, 0, 113 F/Normal, off",
		"Zone 5, 5, on, MX5 & 5, 100, 0, 0, User 3 and 5, 0, 113 F/Normal, off",
		"Zone 6, 6, on, MX6 & 6, 100, 0, 0, User 3 and 5, 0, 113 F/Normal, off",
		"Zone 7, 7, off, MX7 & 7, 30, 0, 0, Party and 2, 0, 109 F/Normal, off",
		"Zone 8, 8, on, MX8 & 8, 100, 0, 0, Party and 2, 0, 109 F/Normal, off",
		"Digital Out A, 9, on, MX10 & 10, 100, 0, 0, unsaved values and -1, 0, 0 F/Low, off",
		"Digital Out B, 10, on, MX10 & 10, 100, 0, 0, unsaved values and -1, 0, 0 F/Low, off",
	}

	f := newFakeAmplifier(t, map[string]string{
		"INPUT?":      "INPUT?\r" + inputTableBody,
		"SYSTEMstat?": "SYSTEMstat?\r" + systemTableBody(rows...),
	})
	c := newTestClient(t, f)

	status, err := c.GetSystemStatus(context.Background())
	if err != nil {
		t.Fatalf("GetSystemStatus failed: %v", err)
	}

	if status.Name != "Director Matrix 6800 #3" {
		t.Errorf("name = %q", status.Name)
	}
	if len(status.Outputs) != 10 {
		t.Errorf("len(outputs) = %d, want 10", len(status.Outputs))
	}
	if len(status.InputNames) != 10 {
		t.Errorf("len(input names) = %d, want 10", len(status.InputNames))
	}
	z7 := status.Outputs["Z7"]
	if z7.On || z7.Volume != 30 {
		t.Errorf("Z7 = %+v, want off at volume 30", z7)
	}
}
