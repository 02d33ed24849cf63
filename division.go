package tapclock

import (
	"fmt"
	"strings"
)

// Division is a note length expressed as the number of taps (MIDI clocks at
// 24 per quarter note) in one output cycle.
//
//	••• 1/32 (3)           •• 1/32T (2)
//	•••••• 1/16 (6)        •••• 1/16T (4)
//	1/16. (9)              1/8T (8)
//	1/8 (12)               1/4T (16)
//	1/8. (18)              1/2T (32)
//	1/4 (24)
//	1/4. (36)
//	1/2 (48)
type Division uint8

// Divisions, in the order of the division pot.
const (
	Regular32nd Division = iota
	Regular16th
	RegularDotted16th
	Regular8th
	RegularDotted8th
	RegularQuarter
	RegularDottedQuarter
	RegularHalf
	Triplet32nd
	Triplet16th
	Triplet8th
	TripletQuarter
	TripletHalf

	numDivisions
)

var divisions = [numDivisions]struct {
	clocks int
	name   string
}{
	Regular32nd:          {3, "1/32"},
	Regular16th:          {6, "1/16"},
	RegularDotted16th:    {9, "1/16."},
	Regular8th:           {12, "1/8"},
	RegularDotted8th:     {18, "1/8."},
	RegularQuarter:       {24, "1/4"},
	RegularDottedQuarter: {36, "1/4."},
	RegularHalf:          {48, "1/2"},
	Triplet32nd:          {2, "1/32T"},
	Triplet16th:          {4, "1/16T"},
	Triplet8th:           {8, "1/8T"},
	TripletQuarter:       {16, "1/4T"},
	TripletHalf:          {32, "1/2T"},
}

// Divisions returns every valid division in pot order.
func Divisions() []Division {
	ds := make([]Division, numDivisions)
	for i := range ds {
		ds[i] = Division(i)
	}
	return ds
}

// Valid reports whether d is one of the defined divisions.
func (d Division) Valid() bool {
	return d < numDivisions
}

// Clocks returns the number of taps in one cycle of d, or 0 if d is not
// valid.
func (d Division) Clocks() int {
	if !d.Valid() {
		return 0
	}
	return divisions[d].clocks
}

func (d Division) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Division(%d)", uint8(d))
	}
	return divisions[d].name
}

// ParseDivision returns the division named s, as printed by String.
func ParseDivision(s string) (Division, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, v := range divisions {
		if strings.ToUpper(v.name) == s {
			return Division(i), nil
		}
	}
	return 0, fmt.Errorf("tapclock: unknown division %q", s)
}
