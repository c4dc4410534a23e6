package analysis

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const degradedWarning = "Model did not return valid JSON"

// Normalize converts raw model text into an Outcome. It never fails: text that
// cannot be recovered as a JSON object becomes the Degraded variant with the
// raw text echoed back for the UI to display.
func Normalize(raw string) Outcome {
	obj, ok := parseObject(raw)
	if !ok {
		return Outcome{Degraded: &Degraded{OK: true, Warning: degradedWarning, Raw: raw}}
	}
	return Outcome{Result: &Result{
		Summary:         coerceString(obj["summary"]),
		RiskLevel:       coerceRisk(obj["risk_level"]),
		Confidence:      coerceConfidence(obj["confidence"]),
		RedFlags:        coerceStrings(obj["red_flags"]),
		Inconsistencies: coerceStrings(obj["inconsistencies"]),
		NextSteps:       coerceStrings(obj["next_steps"]),
	}}
}

// parseObject runs the two-stage parse: strict first, then the substring
// between the first "{" and the last "}". Models routinely wrap their JSON in
// prose or code fences; the salvage pass recovers that case.
func parseObject(raw string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end <= start {
			return nil, false
		}
		if err := json.Unmarshal([]byte(raw[start:end+1]), &v); err != nil {
			return nil, false
		}
	}
	m, ok := v.(map[string]any)
	return m, ok
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprint(v)
	}
}

// coerceRisk is deliberately case-sensitive: "HIGH" falls back to medium.
func coerceRisk(v any) RiskLevel {
	if s, ok := v.(string); ok {
		switch RiskLevel(s) {
		case RiskLow, RiskMedium, RiskHigh:
			return RiskLevel(s)
		}
	}
	return RiskMedium
}

func coerceConfidence(v any) float64 {
	var n float64
	switch c := v.(type) {
	case float64:
		n = c
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return 0
		}
		n = parsed
	default:
		return 0
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return math.Max(0, math.Min(1, n))
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, coerceString(it))
	}
	return out
}
