package domain

// Verdict is the result of screening generated code.
type Verdict struct {
	Accepted bool
	// Matched is the rule that decided the verdict; empty when nothing matched.
	Matched string
	Reason  string
}

// Verdict reasons.
const (
	ReasonDenied       = "uses a disallowed construct"
	ReasonRecognized   = "uses a recognized file-system operation"
	ReasonUnrecognized = "no recognized safe operation found"
)
