package kernel

import "fmt"

// DetailLevel selects how much geometry a host produces for an element.
type DetailLevel int

const (
	DetailUndefined DetailLevel = iota // host default
	DetailCoarse
	DetailMedium
	DetailFine
)

func (d DetailLevel) String() string {
	switch d {
	case DetailUndefined:
		return "undefined"
	case DetailCoarse:
		return "coarse"
	case DetailMedium:
		return "medium"
	case DetailFine:
		return "fine"
	default:
		return fmt.Sprintf("DetailLevel(%d)", int(d))
	}
}

// ParseDetailLevel converts a name such as "fine" into a DetailLevel.
func ParseDetailLevel(s string) (DetailLevel, error) {
	switch s {
	case "", "undefined":
		return DetailUndefined, nil
	case "coarse":
		return DetailCoarse, nil
	case "medium":
		return DetailMedium, nil
	case "fine":
		return DetailFine, nil
	}
	return DetailUndefined, fmt.Errorf("invalid detail level %q, expected coarse, medium or fine", s)
}

// Options controls view- and detail-dependent geometry extraction. The core
// passes it through to the host untouched.
type Options struct {
	DetailLevel DetailLevel
	View        string // view name; empty means model geometry
}
