package svelt

// Options carries the merge parameters spec §4.2 treats as fixed inputs
// to the algorithm, configurable by the driver but never derived by the
// core itself.
type Options struct {
	// PositionWindow is W_pos: the maximum |Δstart|/|Δend| for rule 2
	// (|Δend| only for BND), and the maximum |A.end2 − B.end| for rule 3.
	PositionWindow int
	// FarWindow is W_far: the maximum |Δend2| for BND rule 2, and the
	// maximum far-side distance for rule 3.
	FarWindow int
	// LengthRatio is R_len: rule 2 requires min(len)/max(len) to exceed it.
	LengthRatio float64
	// FlipWindow is F: the half-width of reference context compared for
	// rule 3. Zero selects FlipWindow (50bp).
	FlipWindow int
	// ForceAltTags forces a symbolic ALT (<DEL>, <INS>, ...) on any merged
	// row where a contributing record carries a literal sequence
	// (SPEC_FULL §4.12).
	ForceAltTags bool
	// DropInfo lists INFO keys to omit from a synthesised row's copied
	// INFO block (SPEC_FULL §4.12).
	DropInfo []string
}

// DefaultOptions returns the literal defaults from spec §4.2:
// W_pos=25, W_far=150, R_len=0.9.
func DefaultOptions() Options {
	return Options{
		PositionWindow: 25,
		FarWindow:      150,
		LengthRatio:    0.9,
	}
}
