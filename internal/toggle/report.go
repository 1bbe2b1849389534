package toggle

import (
	"fmt"
	"io"
)

// Report writes the human-readable status lines for o.
func Report(w io.Writer, o Outcome) {
	fmt.Fprintf(w, "Display: %s\n", o.Display)

	p := o.Decision.Profile
	switch o.Decision.Action {
	case ActionApply:
		fmt.Fprintln(w, "Toggling Custom Settings:")
		fmt.Fprintf(w, "Vibrance: %d%%  Hue: %d  Temp: %d\n", p.Vibrance, p.Hue, p.Temperature)
		fmt.Fprintf(w, "Brightness: %.2f  Contrast: %.2f  Gamma: %.2f\n", p.Brightness, p.Contrast, p.Gamma)
	default:
		fmt.Fprintln(w, "Resetting to default settings...")
	}

	if o.Err != nil {
		fmt.Fprintf(w, "Warning: %v\n", o.Err)
	}
}
