package analysis

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Request carries the user-submitted fields for one analysis call.
// All fields default to empty; ImageURL, when set, points at a previously
// uploaded blob or any public image.
type Request struct {
	MessagesText string `json:"messages_text"`
	UserContext  string `json:"user_context"`
	LinkURL      string `json:"link_url"`
	ExtraNotes   string `json:"extra_notes"`
	ImageURL     string `json:"image_url"`
}

// Result is the well-typed assessment surfaced to the caller.
// The three list fields are always non-nil so they marshal as [] rather than null.
type Result struct {
	Summary         string    `json:"summary"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Confidence      float64   `json:"confidence"`
	RedFlags        []string  `json:"red_flags"`
	Inconsistencies []string  `json:"inconsistencies"`
	NextSteps       []string  `json:"next_steps"`
}

// Degraded is the fallback payload when the model text cannot be parsed as an
// object at all. It is still a successful response, not an error.
type Degraded struct {
	OK      bool   `json:"ok"`
	Warning string `json:"warning"`
	Raw     string `json:"raw"`
}

// Outcome is a tagged variant: exactly one of Result or Degraded is set.
type Outcome struct {
	Result   *Result
	Degraded *Degraded
}

// IsDegraded reports whether the fallback branch was taken.
func (o Outcome) IsDegraded() bool { return o.Degraded != nil }

// Payload returns whichever variant should be serialized to the client.
func (o Outcome) Payload() any {
	if o.Degraded != nil {
		return o.Degraded
	}
	return o.Result
}
