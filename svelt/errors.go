package svelt

import "fmt"

// DiagnosticKind identifies the class of recoverable, per-record problem
// the pipeline encountered (spec §7, kinds 1-4). None of these alter
// merge decisions beyond demoting the offending record to KindOTHER.
type DiagnosticKind int

const (
	DiagParseError DiagnosticKind = iota
	DiagUnsupportedSVTYPE
	DiagBadBreakend
	DiagBadEnd
	DiagReferenceMiss
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagParseError:
		return "parse-error"
	case DiagUnsupportedSVTYPE:
		return "unsupported-svtype"
	case DiagBadBreakend:
		return "bad-breakend"
	case DiagBadEnd:
		return "bad-end"
	case DiagReferenceMiss:
		return "reference-miss"
	default:
		return "unknown"
	}
}

// Diagnostic is one entry in the non-fatal diagnostics stream (spec §7):
// visible, but never silently altering a merge decision.
type Diagnostic struct {
	Kind     DiagnosticKind
	InputID  int
	RowIndex int
	Message  string
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("input %d row %d: %s: %s", d.InputID, d.RowIndex, d.Kind, d.Message)
}

// FatalKind identifies an unrecoverable driver-level error (spec §6-§7),
// each mapped to a distinct CLI exit code.
type FatalKind int

const (
	// FatalMalformedInput covers a header missing the SVTYPE INFO
	// declaration the driver requires before matching can start. A header
	// without ##contig lines is accepted. Exit code 2.
	FatalMalformedInput FatalKind = iota
	// FatalIO covers decode or I/O failure on an input or output stream
	// (spec §7 kind 6). Exit code 3.
	FatalIO
	// FatalSampleCollision covers two inputs declaring the same sample
	// name (spec §7 kind 5). Exit code 4.
	FatalSampleCollision
	// FatalInvariant covers incompatible contig declarations across
	// inputs and any internal consistency check the matcher must never
	// proceed past (spec §6, spec §7 kind 7). Exit code 4.
	FatalInvariant
)

// FatalError wraps a FatalKind with the underlying cause. cmd/bio-svelt
// maps Kind to an exit code.
type FatalError struct {
	Kind FatalKind
	Err  error
}

func (e *FatalError) Error() string { return e.Err.Error() }
func (e *FatalError) Unwrap() error { return e.Err }
