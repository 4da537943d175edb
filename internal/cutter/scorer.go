package cutter

import "fmt"

// ScoreKind selects how a pair of adjacent samples is scored.
type ScoreKind int

const (
	// RawDiff scores next - value.
	RawDiff ScoreKind = iota
	// WhiteThresholdCount counts edges against a near-white background.
	WhiteThresholdCount
	// BlackThreshold is a signed difference with flat non-black regions
	// suppressed.
	BlackThreshold
	// BlackThresholdCount counts edges against black letterbox bars.
	BlackThresholdCount
)

var scoreKindNames = map[ScoreKind]string{
	RawDiff:             "raw-diff",
	WhiteThresholdCount: "white-count",
	BlackThreshold:      "black",
	BlackThresholdCount: "black-count",
}

func (k ScoreKind) String() string {
	if name, ok := scoreKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ScoreKind(%d)", int(k))
}

// Scorer quantifies how desirable it is to cut between two adjacent
// luminance samples. Higher is better once summed along a border.
type Scorer struct {
	Kind  ScoreKind
	Delta int
}

// Raw returns a RawDiff scorer.
func Raw() Scorer { return Scorer{Kind: RawDiff} }

// WhiteCount returns a WhiteThresholdCount scorer.
func WhiteCount(delta int) Scorer { return Scorer{Kind: WhiteThresholdCount, Delta: delta} }

// Black returns a BlackThreshold scorer.
func Black(delta int) Scorer { return Scorer{Kind: BlackThreshold, Delta: delta} }

// BlackCount returns a BlackThresholdCount scorer.
func BlackCount(delta int) Scorer { return Scorer{Kind: BlackThresholdCount, Delta: delta} }

func (s Scorer) validate() error {
	if _, ok := scoreKindNames[s.Kind]; !ok {
		return fmt.Errorf("scorer %v: %w", s.Kind, ErrInvalidMode)
	}
	if s.Delta < 0 {
		return fmt.Errorf("delta %d: %w", s.Delta, ErrOutOfRange)
	}
	return nil
}

// Score scores the boundary between value and the sample that follows it.
//
// The threshold variants check suppression before tolerance and compare the
// tolerance strictly (|diff| < delta scores 0).
func (s Scorer) Score(value, next int) int {
	switch s.Kind {
	case RawDiff:
		return next - value

	case WhiteThresholdCount:
		floor := 0xFF - s.Delta
		if value < floor && next < floor {
			return 0
		}
		if abs(next-value) < s.Delta {
			return 0
		}
		if value > next {
			return -1
		}
		return 1

	case BlackThreshold:
		if value > s.Delta && next > s.Delta {
			return 0
		}
		return value - next

	case BlackThresholdCount:
		if value > s.Delta && next > s.Delta {
			return 0
		}
		if abs(next-value) < s.Delta {
			return 0
		}
		if value < next {
			return -1
		}
		return 1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
