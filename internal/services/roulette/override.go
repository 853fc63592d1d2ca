package roulette

import (
	"regexp"
	"strconv"
	"strings"
)

// overrideRe matches the deterministic override code anywhere in the
// input: "HDJDUS X2" forces x2, "HDJDUS X?" forces mystery with an
// optional pre-selected door. The pattern is part of observable
// behavior; do not tighten it.
var overrideRe = regexp.MustCompile(`(?i)HDJDUS\s+(X2|X\?)\s*(\d*)`)

// parseOverride returns the forced outcome, the pre-selected mystery
// door (0 for none), and whether the code matched at all. Malformed
// codes are not errors; the caller falls through to the random draw.
func parseOverride(code string) (Outcome, int, bool) {
	m := overrideRe.FindStringSubmatch(code)
	if m == nil {
		return "", 0, false
	}

	switch strings.ToUpper(m[1]) {
	case "X2":
		return OutcomeX2, 0, true
	default: // "X?"
		door, err := strconv.Atoi(m[2])
		if err != nil || door < 1 || door > 3 {
			// no usable position: the player picks the door
			return OutcomeMystery, 0, true
		}

		return OutcomeMystery, door, true
	}
}
