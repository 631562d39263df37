package enums

// LineOutcome reports how a single settlement line fared. Outcomes are
// per-line: one failed line never aborts its siblings.
type LineOutcome string

const (
	LineOutcomeOK                LineOutcome = "ok"
	LineOutcomeInsufficientStock LineOutcome = "insufficient_stock"
	LineOutcomeRemoteFailure     LineOutcome = "remote_failure"
)

// String implements fmt.Stringer.
func (l LineOutcome) String() string {
	return string(l)
}
