package director

import (
	"fmt"
	"strconv"
	"strings"
)

// OutputStatus is an immutable snapshot of one analog zone or digital
// output as reported by the SYSTEMstat? table.
type OutputStatus struct {
	Output      OutputID `json:"output"`
	Name        string   `json:"name"`
	Input       InputID  `json:"input"`
	On          bool     `json:"on"`
	Volume      int      `json:"volume"` // 0-100
	SignalSense bool     `json:"signal_sense"`
	Group       int      `json:"group"`
}

// SystemStatus is an immutable snapshot of the whole amplifier. Outputs is
// keyed by the output wire string (Z1..Z8, DXOa, DXOb); Inputs by the
// input display name. InputNames preserves the device-reported order.
type SystemStatus struct {
	Name       string                  `json:"name"`
	Outputs    map[string]OutputStatus `json:"outputs"`
	Inputs     map[string]InputID      `json:"inputs"`
	InputNames []string                `json:"input_names"`
}

// SYSTEMstat? layout: the amplifier name on line 0, then a fixed 10-line
// preamble (temperatures, voltage, protect flags, IP, date, time, column
// header) before the first output row. The offset is not detected
// dynamically; the protocol documents it as fixed.
const (
	amplifierNameLabel = "AMPLIFIER NAME: "
	outputTableOffset  = 11
	outputFieldCount   = 11
)

// SYSTEMstat? row fields, comma-space separated.
const (
	fieldName = iota
	fieldStatusIndex
	fieldPower
	fieldInput
	fieldVolume
	fieldBass
	fieldTreble
	fieldEQ
	fieldGroup
	fieldTemp
	fieldSignalSense
)

// parseInputTable walks the CRLF rows of an INPUT? body. Rows that do not
// split into "<name>: <rest>" terminate the table; rows whose name is not
// a recognized input encoding (headers, footers) are skipped. The returned
// count of analog inputs anchors the digital status-index offset for the
// system table.
func parseInputTable(body string) (inputs map[string]InputID, names []string, numAnalog int) {
	inputs = make(map[string]InputID)

	for _, line := range strings.Split(body, "\r\n") {
		fields := strings.SplitN(line, ": ", 2)
		if len(fields) < 2 {
			break
		}

		name := fields[0]
		input, err := InputFromPrettyName(name, numAnalog)
		if err != nil {
			continue
		}
		if input.Analog {
			numAnalog++
		}
		inputs[name] = input
		names = append(names, name)
	}

	return inputs, names, numAnalog
}

// parseSystemTable parses a SYSTEMstat? body into the device name and the
// per-output snapshots. A row with fewer than 11 fields ends the table; a
// row that has 11 fields but fails numeric parsing is a real error.
func parseSystemTable(body string, numAnalog int) (string, map[string]OutputStatus, error) {
	lines := strings.Split(body, "\r\n")

	nameParts := strings.SplitN(lines[0], amplifierNameLabel, 2)
	if len(nameParts) < 2 {
		return "", nil, fmt.Errorf("missing amplifier name line, got %q", lines[0])
	}
	systemName := nameParts[1]

	outputs := make(map[string]OutputStatus)
	if len(lines) <= outputTableOffset {
		return systemName, outputs, nil
	}

	for _, line := range lines[outputTableOffset:] {
		fields := strings.Split(line, ", ")
		if len(fields) < outputFieldCount {
			break
		}

		name := fields[fieldName]

		output, err := OutputFromStatusID(fields[fieldStatusIndex], fields[fieldGroup], name)
		if err != nil {
			return "", nil, &MalformedRowError{Row: line, Err: err}
		}

		input, err := InputFromStatusID(fields[fieldInput], numAnalog)
		if err != nil {
			return "", nil, &MalformedRowError{Row: line, Err: err}
		}

		volume, err := strconv.Atoi(fields[fieldVolume])
		if err != nil {
			return "", nil, &MalformedRowError{Row: line, Err: err}
		}

		// Bass, treble, EQ and temperature are reported but not retained.
		outputs[output.String()] = OutputStatus{
			Output:      output,
			Name:        name,
			Input:       input,
			On:          fields[fieldPower] == "on",
			Volume:      volume,
			SignalSense: fields[fieldSignalSense] == "on",
			Group:       output.Group,
		}
	}

	return systemName, outputs, nil
}

// ParseSystemStatus combines the two raw dump bodies into one snapshot.
func ParseSystemStatus(inputBody, systemBody string) (*SystemStatus, error) {
	inputs, names, numAnalog := parseInputTable(inputBody)

	systemName, outputs, err := parseSystemTable(systemBody, numAnalog)
	if err != nil {
		return nil, err
	}

	return &SystemStatus{
		Name:       systemName,
		Outputs:    outputs,
		Inputs:     inputs,
		InputNames: names,
	}, nil
}
