package director

import (
	"fmt"
	"strconv"
	"strings"
)

// The Director addresses every source and sink in two parallel numbering
// spaces: protocol names used in commands (MX1, DXa, Z3, DXOa) and
// status-table row indices used in the SYSTEMstat? dump. All arithmetic
// relating the two lives in this file and nowhere else.

// InputID identifies a stereo input pair, either analog or digital.
type InputID struct {
	PrettyName   string `json:"name"`          // "Channel 1-2", "Digital In A"
	StatusName   string `json:"status_name"`   // "MX1 & 1"
	ProtocolName string `json:"protocol_name"` // "MX1", "DXa"
	Analog       bool   `json:"analog"`
}

// String returns the wire form used in commands.
func (id InputID) String() string {
	return id.ProtocolName
}

// AnalogInput builds the InputID for the 1-based analog input pair index.
func AnalogInput(index int) InputID {
	c2 := index * 2
	c1 := c2 - 1
	return InputID{
		PrettyName:   fmt.Sprintf("Channel %d-%d", c1, c2),
		StatusName:   fmt.Sprintf("MX%d & %d", index, index),
		ProtocolName: fmt.Sprintf("MX%d", index),
		Analog:       true,
	}
}

// DigitalInput builds the InputID for the 1-based digital input pair index.
// Digital inputs are lettered a, b, c, ... in protocol commands but occupy
// status-table rows offset by the number of analog inputs.
func DigitalInput(index, numAnalog int) InputID {
	c := byte('a' + index - 1)
	bigC := byte('A' + index - 1)
	statusIndex := numAnalog + index
	return InputID{
		PrettyName:   fmt.Sprintf("Digital In %c", bigC),
		StatusName:   fmt.Sprintf("MX%d & %d", statusIndex, statusIndex),
		ProtocolName: fmt.Sprintf("DX%c", c),
	}
}

// InputFromPrettyName decodes the display name the amplifier reports in the
// INPUT? table. Returns ErrUnrecognizedFormat for anything that is not an
// input row; callers must treat that as "not an input", never as a value.
func InputFromPrettyName(name string, numAnalog int) (InputID, error) {
	parts := strings.Split(name, " ")
	switch parts[0] {
	case "Channel":
		if len(parts) < 2 {
			return InputID{}, ErrUnrecognizedFormat
		}
		channels := strings.Split(parts[1], "-")
		c1, err := strconv.Atoi(channels[0])
		if err != nil {
			return InputID{}, ErrUnrecognizedFormat
		}
		return AnalogInput(c1/2 + 1), nil
	case "Digital":
		if len(parts) < 3 || len(parts[2]) != 1 || parts[2][0] < 'A' || parts[2][0] > 'Z' {
			return InputID{}, ErrUnrecognizedFormat
		}
		return DigitalInput(int(parts[2][0]-'A')+1, numAnalog), nil
	default:
		return InputID{}, ErrUnrecognizedFormat
	}
}

// InputFromStatusID decodes a status-table input reference of the form
// "MX<n> & <n>". Indices above numAnalog belong to the digital set.
// With numAnalog == 0 every index is treated as digital; the amplifier
// never reports a zero-analog layout, so the policy is fixed here rather
// than guessed per call.
func InputFromStatusID(statusID string, numAnalog int) (InputID, error) {
	if len(statusID) < 3 {
		return InputID{}, ErrUnrecognizedFormat
	}
	channels := statusID[2:]
	index, err := strconv.Atoi(strings.Split(channels, " & ")[0])
	if err != nil {
		return InputID{}, ErrUnrecognizedFormat
	}
	if index <= numAnalog {
		return AnalogInput(index), nil
	}
	return DigitalInput(index-numAnalog, numAnalog), nil
}

// OutputID identifies an analog amplifier zone (1-8) or a digital output
// pair (a/b, status rows 9/10). DigitalID is empty for analog zones.
type OutputID struct {
	Zone      int    `json:"zone"`
	Group     int    `json:"group"` // 0 = ungrouped
	DigitalID string `json:"digital_id,omitempty"`
}

// AnalogOutput builds the OutputID for an analog zone, 1-8 inclusive.
func AnalogOutput(zone int) OutputID {
	return OutputID{Zone: zone}
}

// DigitalOutput builds the OutputID for a digital output pair. Letters 'a'
// and 'b' map to status rows 9 and 10.
func DigitalOutput(letter byte) OutputID {
	return OutputID{Zone: 9 + int(letter-'a'), DigitalID: string(letter)}
}

// AllOutputs returns the fixed device topology: analog zones 1-8 plus the
// two digital output pairs.
func AllOutputs() []OutputID {
	outputs := make([]OutputID, 0, 10)
	for i := 1; i <= 8; i++ {
		outputs = append(outputs, AnalogOutput(i))
	}
	outputs = append(outputs, DigitalOutput('a'), DigitalOutput('b'))
	return outputs
}

// digitalOutPrefix is the display-name prefix of digital output rows in
// the SYSTEMstat? table; the output letter sits at a fixed offset after it.
const (
	digitalOutPrefix       = "Digital Out"
	digitalOutLetterOffset = 12
)

// OutputFromStatusID decodes an output from its SYSTEMstat? row fields:
// the status index, the group id, and the display name. The name decides
// analog vs. digital.
func OutputFromStatusID(statusID, groupID, name string) (OutputID, error) {
	zone, err := strconv.Atoi(statusID)
	if err != nil {
		return OutputID{}, fmt.Errorf("invalid status index %q: %w", statusID, err)
	}
	group, err := strconv.Atoi(groupID)
	if err != nil {
		return OutputID{}, fmt.Errorf("invalid group id %q: %w", groupID, err)
	}

	digitalID := ""
	if strings.HasPrefix(name, digitalOutPrefix) {
		if len(name) <= digitalOutLetterOffset {
			return OutputID{}, fmt.Errorf("digital output name too short: %q", name)
		}
		digitalID = strings.ToLower(string(name[digitalOutLetterOffset]))
	}

	return OutputID{Zone: zone, Group: group, DigitalID: digitalID}, nil
}

// Name returns the friendly display name of the output.
func (o OutputID) Name() string {
	if o.DigitalID == "" {
		return fmt.Sprintf("Zone %d", o.Zone)
	}
	return fmt.Sprintf("Digital Out %s", strings.ToUpper(o.DigitalID))
}

// String returns the wire form: Z<n> for analog zones, DXO<c> for digital
// outputs. Used as the key of SystemStatus.Outputs.
func (o OutputID) String() string {
	if o.DigitalID == "" {
		return fmt.Sprintf("Z%d", o.Zone)
	}
	return fmt.Sprintf("DXO%s", o.DigitalID)
}

// OpString returns the operand used when issuing commands: the group
// operand when the output belongs to a group, otherwise the wire form.
func (o OutputID) OpString() string {
	if o.Group > 0 {
		return fmt.Sprintf("GRP%d", o.Group)
	}
	return o.String()
}
