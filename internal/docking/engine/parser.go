package engine

import (
	"strconv"
	"strings"
)

// vinaResultMarker identifies a pose score line in vina stdout, e.g.
//
//	REMARK VINA RESULT:    -7.2      0.000      1.800
const vinaResultMarker = "REMARK VINA RESULT:"

// ScoreRecord holds the scores parsed from vina stdout. All fields are nil
// when no marker line parsed; downstream treats a missing score as a soft
// signal, not a hard error, because the docking run itself already succeeded.
type ScoreRecord struct {
	BindingAffinity *float64
	RMSDLowerBound  *float64
	RMSDUpperBound  *float64
}

// ParseVinaOutput scans vina stdout line by line for the first parseable
// result line. Vina prints poses best-first, so the first match is the
// top-ranked pose. Fields 3, 4 and 5 of the whitespace-split line are binding
// affinity, RMSD lower bound and RMSD upper bound; a candidate line that does
// not parse is skipped, not fatal.
func ParseVinaOutput(stdout string) ScoreRecord {
	for _, line := range strings.Split(stdout, "\n") {
		if !strings.Contains(line, vinaResultMarker) {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) < 6 {
			continue
		}

		affinity, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			continue
		}

		rmsdLower, err := strconv.ParseFloat(parts[4], 64)
		if err != nil {
			continue
		}

		rmsdUpper, err := strconv.ParseFloat(parts[5], 64)
		if err != nil {
			continue
		}

		return ScoreRecord{
			BindingAffinity: &affinity,
			RMSDLowerBound:  &rmsdLower,
			RMSDUpperBound:  &rmsdUpper,
		}
	}

	return ScoreRecord{}
}
