package director

import (
	"errors"
	"fmt"
	"testing"
)

func TestAnalogInput(t *testing.T) {
	for i := 1; i <= 8; i++ {
		in := AnalogInput(i)

		if !in.Analog {
			t.Errorf("AnalogInput(%d) not flagged analog", i)
		}
		if want := fmt.Sprintf("MX%d", i); in.ProtocolName != want {
			t.Errorf("AnalogInput(%d) protocol name = %q, want %q", i, in.ProtocolName, want)
		}
		if want := fmt.Sprintf("Channel %d-%d", 2*i-1, 2*i); in.PrettyName != want {
			t.Errorf("AnalogInput(%d) pretty name = %q, want %q", i, in.PrettyName, want)
		}
		if want := fmt.Sprintf("MX%d & %d", i, i); in.StatusName != want {
			t.Errorf("AnalogInput(%d) status name = %q, want %q", i, in.StatusName, want)
		}

		// Round trip through the status-table encoding.
		decoded, err := InputFromStatusID(in.StatusName, 8)
		if err != nil {
			t.Fatalf("InputFromStatusID(%q) failed: %v", in.StatusName, err)
		}
		if decoded != in {
			t.Errorf("InputFromStatusID(%q) = %+v, want %+v", in.StatusName, decoded, in)
		}
	}
}

func TestDigitalInput(t *testing.T) {
	tests := []struct {
		index      int
		numAnalog  int
		protocol   string
		pretty     string
		statusName string
	}{
		{1, 8, "DXa", "Digital In A", "MX9 & 9"},
		{2, 8, "DXb", "Digital In B", "MX10 & 10"},
		{1, 4, "DXa", "Digital In A", "MX5 & 5"},
		{3, 0, "DXc", "Digital In C", "MX3 & 3"},
	}

	for _, tt := range tests {
		in := DigitalInput(tt.index, tt.numAnalog)
		if in.Analog {
			t.Errorf("DigitalInput(%d, %d) flagged analog", tt.index, tt.numAnalog)
		}
		if in.ProtocolName != tt.protocol {
			t.Errorf("DigitalInput(%d, %d) protocol name = %q, want %q",
				tt.index, tt.numAnalog, in.ProtocolName, tt.protocol)
		}
		if in.PrettyName != tt.pretty {
			t.Errorf("DigitalInput(%d, %d) pretty name = %q, want %q",
				tt.index, tt.numAnalog, in.PrettyName, tt.pretty)
		}
		if in.StatusName != tt.statusName {
			t.Errorf("DigitalInput(%d, %d) status name = %q, want %q",
				tt.index, tt.numAnalog, in.StatusName, tt.statusName)
		}
	}
}

func TestInputFromPrettyName(t *testing.T) {
	tests := []struct {
		name      string
		numAnalog int
		want      string // expected protocol name, "" means unrecognized
	}{
		{"Channel 1-2", 8, "MX1"},
		{"Channel 7-8", 8, "MX4"},
		{"Channel 15-16", 8, "MX8"},
		{"Digital In A", 8, "DXa"},
		{"Digital In B", 8, "DXb"},
		{"INPUTS", 8, ""},
		{"Zone 1", 8, ""},
		{"", 8, ""},
		{"Channel", 8, ""},
		{"Digital In", 8, ""},
	}

	for _, tt := range tests {
		in, err := InputFromPrettyName(tt.name, tt.numAnalog)
		if tt.want == "" {
			if !errors.Is(err, ErrUnrecognizedFormat) {
				t.Errorf("InputFromPrettyName(%q) error = %v, want ErrUnrecognizedFormat", tt.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("InputFromPrettyName(%q) failed: %v", tt.name, err)
			continue
		}
		if in.ProtocolName != tt.want {
			t.Errorf("InputFromPrettyName(%q) = %q, want %q", tt.name, in.ProtocolName, tt.want)
		}
	}
}

func TestInputFromPrettyNameMatchesDigitalInput(t *testing.T) {
	for _, numAnalog := range []int{0, 4, 8} {
		fromName, err := InputFromPrettyName("Digital In A", numAnalog)
		if err != nil {
			t.Fatalf("InputFromPrettyName failed: %v", err)
		}
		if fromName != DigitalInput(1, numAnalog) {
			t.Errorf("numAnalog=%d: %+v != DigitalInput(1, %d)", numAnalog, fromName, numAnalog)
		}
	}
}

func TestInputFromStatusIDZeroAnalog(t *testing.T) {
	// With no analog inputs every status index belongs to the digital set.
	in, err := InputFromStatusID("MX1 & 1", 0)
	if err != nil {
		t.Fatalf("InputFromStatusID failed: %v", err)
	}
	if in.Analog {
		t.Error("expected digital input for numAnalog=0")
	}
	if in.ProtocolName != "DXa" {
		t.Errorf("protocol name = %q, want DXa", in.ProtocolName)
	}
}

func TestInputFromStatusIDMalformed(t *testing.T) {
	for _, id := range []string{"", "MX", "MXx & x", "MX & "} {
		if _, err := InputFromStatusID(id, 8); !errors.Is(err, ErrUnrecognizedFormat) {
			t.Errorf("InputFromStatusID(%q) error = %v, want ErrUnrecognizedFormat", id, err)
		}
	}
}

func TestOutputStrings(t *testing.T) {
	z3 := AnalogOutput(3)
	if z3.String() != "Z3" {
		t.Errorf("wire string = %q, want Z3", z3.String())
	}
	if z3.OpString() != "Z3" {
		t.Errorf("op string = %q, want Z3", z3.OpString())
	}
	if z3.Name() != "Zone 3" {
		t.Errorf("name = %q, want Zone 3", z3.Name())
	}

	grouped := OutputID{Zone: 5, Group: 2}
	if grouped.OpString() != "GRP2" {
		t.Errorf("grouped op string = %q, want GRP2", grouped.OpString())
	}
	if grouped.String() != "Z5" {
		t.Errorf("grouped wire string = %q, want Z5", grouped.String())
	}

	dxb := DigitalOutput('b')
	if dxb.String() != "DXOb" {
		t.Errorf("digital wire string = %q, want DXOb", dxb.String())
	}
	if dxb.Name() != "Digital Out B" {
		t.Errorf("digital name = %q, want Digital Out B", dxb.Name())
	}
	if dxb.Zone != 10 {
		t.Errorf("digital zone = %d, want 10", dxb.Zone)
	}
}

func TestAllOutputs(t *testing.T) {
	outputs := AllOutputs()
	if len(outputs) != 10 {
		t.Fatalf("len(AllOutputs()) = %d, want 10", len(outputs))
	}
	for i := 0; i < 8; i++ {
		if outputs[i].Zone != i+1 || outputs[i].DigitalID != "" {
			t.Errorf("outputs[%d] = %+v, want analog zone %d", i, outputs[i], i+1)
		}
	}
	if outputs[8].String() != "DXOa" || outputs[9].String() != "DXOb" {
		t.Errorf("digital outputs = %v, %v, want DXOa, DXOb", outputs[8], outputs[9])
	}
}

func TestOutputFromStatusID(t *testing.T) {
	out, err := OutputFromStatusID("1", "0", "Zone 1")
	if err != nil {
		t.Fatalf("OutputFromStatusID failed: %v", err)
	}
	if out.Zone != 1 || out.Group != 0 || out.DigitalID != "" {
		t.Errorf("analog output = %+v", out)
	}

	out, err = OutputFromStatusID("9", "3", "Digital Out A")
	if err != nil {
		t.Fatalf("OutputFromStatusID failed: %v", err)
	}
	if out.Zone != 9 || out.Group != 3 || out.DigitalID != "a" {
		t.Errorf("digital output = %+v", out)
	}
	if out.OpString() != "GRP3" {
		t.Errorf("op string = %q, want GRP3", out.OpString())
	}

	if _, err := OutputFromStatusID("x", "0", "Zone 1"); err == nil {
		t.Error("expected error for non-numeric status index")
	}
	if _, err := OutputFromStatusID("9", "y", "Digital Out A"); err == nil {
		t.Error("expected error for non-numeric group id")
	}
	if _, err := OutputFromStatusID("9", "0", "Digital Out"); err == nil {
		t.Error("expected error for truncated digital output name")
	}
}
