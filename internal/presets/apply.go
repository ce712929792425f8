package presets

import (
	"context"
	"fmt"

	"github.com/soundbridge/directorcore/internal/director"
)

// Apply drives the amplifier into the preset's state. The current snapshot
// resolves output wire strings (including group membership) and source
// display names; a preset referencing an unknown output or source fails
// before any command is sent for that output.
//
// Per output the order is power, source, volume, so a zone is switched on
// before it is retuned.
func Apply(ctx context.Context, client *director.Client, status *director.SystemStatus, preset *Preset) error {
	for _, setting := range preset.Outputs {
		current, ok := status.Outputs[setting.Output]
		if !ok {
			return fmt.Errorf("preset %q: unknown output %q", preset.Name, setting.Output)
		}
		output := current.Output

		if setting.Power != nil {
			if err := client.SetOutputPower(ctx, output, *setting.Power); err != nil {
				return fmt.Errorf("preset %q: set power on %s: %w", preset.Name, setting.Output, err)
			}
		}

		if setting.Source != "" {
			input, ok := status.Inputs[setting.Source]
			if !ok {
				return fmt.Errorf("preset %q: unknown source %q", preset.Name, setting.Source)
			}
			if err := client.MapInputToOutput(ctx, input, output); err != nil {
				return fmt.Errorf("preset %q: map source on %s: %w", preset.Name, setting.Output, err)
			}
		}

		if setting.Volume != nil {
			if err := client.SetOutputVolume(ctx, output, *setting.Volume); err != nil {
				return fmt.Errorf("preset %q: set volume on %s: %w", preset.Name, setting.Output, err)
			}
		}
	}

	return nil
}
