package history

import "time"

// RecordID identifier type
type RecordID string

// Record is one completed analysis kept for auditing and retrieval.
// Raw holds the unparsed model text only for degraded outcomes.
type Record struct {
	ID         RecordID  `json:"id"`
	ImageURL   string    `json:"image_url,omitempty"`
	Summary    string    `json:"summary"`
	RiskLevel  string    `json:"risk_level"`
	Confidence float64   `json:"confidence"`
	Degraded   bool      `json:"degraded"`
	Raw        string    `json:"raw,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
