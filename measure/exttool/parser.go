package exttool

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/toneprobe/toneprobe/measure/distortion"
)

// Record is the parsed external measurement. It embeds the shared
// Measurement shape so both analysis paths stay structurally comparable.
type Record struct {
	distortion.Measurement
	SampleRate int
	SPL        float64
}

// Parse scans the analyzer's captured stdout for key/value tokens of the
// form "<key>: <value>". Any surrounding text is tolerated; each
// recognized key consumes exactly the next whitespace-delimited token as
// its numeric value. An unparsable value defaults to 0 and produces a
// warning — this leniency is confined to the external path.
func Parse(stdout string) (Record, []string) {
	var (
		rec      Record
		warnings []string
	)

	tokens := strings.Fields(stdout)
	for i := 0; i < len(tokens); i++ {
		var dst *float64

		switch tokens[i] {
		case "Frequency:":
			dst = &rec.DominantFreq
		case "SPL:":
			dst = &rec.SPL
		case "THDpercent:":
			dst = &rec.THDPercent
		case "THDdB:":
			dst = &rec.THDdBFS
		case "Rate:":
			// Second half of "Sample Rate:".
			if i == 0 || tokens[i-1] != "Sample" {
				continue
			}

			if i+1 >= len(tokens) {
				warnings = append(warnings, "Sample Rate: missing value")
				continue
			}

			i++

			v, err := strconv.Atoi(tokens[i])
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("Sample Rate: unparsable value %q, defaulting to 0", tokens[i]))
				continue
			}

			rec.SampleRate = v

			continue
		default:
			continue
		}

		if i+1 >= len(tokens) {
			warnings = append(warnings, fmt.Sprintf("%s missing value", tokens[i]))
			continue
		}

		i++

		v, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s unparsable value %q, defaulting to 0", tokens[i-1], tokens[i]))
			continue
		}

		*dst = v
	}

	return rec, warnings
}
