package gridtab

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tsawler/gridtab/tables"
)

// WarningType classifies a non-fatal reconstruction issue.
type WarningType string

const (
	// WarningDroppedZone means a table zone had too few rulings to form a grid.
	WarningDroppedZone WarningType = "dropped-zone"

	// WarningAmbiguousText means text overlapped several cells equally.
	WarningAmbiguousText WarningType = "ambiguous-text"

	// WarningUnplacedText means text fell outside every cell or was left
	// over after sequential binding.
	WarningUnplacedText WarningType = "unplaced-text"

	// WarningSequentialBinding means a table's text had no positions and
	// was dealt into cells in reading order; its content is approximate.
	WarningSequentialBinding WarningType = "sequential-binding"
)

// Warning describes an issue that did not stop reconstruction but may
// affect the results.
type Warning struct {
	Type    WarningType
	Zone    int // zone index, or -1 when the warning is not tied to one zone
	Message string
}

func (w Warning) String() string {
	if w.Zone >= 0 {
		return fmt.Sprintf("[%s] zone %d: %s", w.Type, w.Zone, w.Message)
	}
	return fmt.Sprintf("[%s] %s", w.Type, w.Message)
}

// FormatWarnings renders warnings one per line.
func FormatWarnings(warnings []Warning) string {
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.String()
	}
	return strings.Join(lines, "\n")
}

// warningsFor collects the warnings reported by a reconstruction run.
func warningsFor(res *tables.Result) []Warning {
	var out []Warning

	for _, d := range res.Dropped {
		msg := d.Err.Error()
		var ge *tables.GeometryError
		if errors.As(d.Err, &ge) {
			msg = fmt.Sprintf("%d row and %d column boundaries", ge.RowBoundaries, ge.ColBoundaries)
		}
		out = append(out, Warning{Type: WarningDroppedZone, Zone: d.Zone, Message: msg})
	}

	for _, t := range res.ZoneTables {
		if t.ExtractionMethod.IsSequential() {
			out = append(out, Warning{
				Type:    WarningSequentialBinding,
				Zone:    t.ZoneIndex,
				Message: "text bound in reading order without positions",
			})
		}
	}

	if n := len(res.Ambiguities); n > 0 {
		out = append(out, Warning{
			Type:    WarningAmbiguousText,
			Zone:    -1,
			Message: fmt.Sprintf("%d text regions overlapped several cells equally", n),
		})
	}

	if res.Unplaced > 0 {
		out = append(out, Warning{
			Type:    WarningUnplacedText,
			Zone:    -1,
			Message: fmt.Sprintf("%d text fragments found no cell", res.Unplaced),
		})
	}

	return out
}
