package race

import (
	"fmt"
	"strings"
)

// Kind selects how many finishers make up the prize ranking.
type Kind int

const (
	KindUnknown Kind = iota
	Top3
	Top4
	Top5
)

func (k Kind) String() string {
	switch k {
	case Top3:
		return "tierce"
	case Top4:
		return "quarte"
	case Top5:
		return "quinte"
	default:
		return "unknown"
	}
}

// Winners is the number of finishers required to end the race.
func (k Kind) Winners() int {
	switch k {
	case Top3:
		return 3
	case Top4:
		return 4
	case Top5:
		return 5
	default:
		return 0
	}
}

func (k Kind) Valid() bool {
	return k.Winners() > 0
}

// ParseKind maps user input to a Kind. Accents are expected to be stripped by
// the caller (see lib.Normalize).
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "tierce", "top3":
		return Top3, nil
	case "2", "quarte", "top4":
		return Top4, nil
	case "3", "quinte", "top5":
		return Top5, nil
	}

	return KindUnknown, fmt.Errorf("%w: unknown race kind %q", ErrInvalidConfiguration, s)
}
