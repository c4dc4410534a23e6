package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizeStructured(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected *Result
	}{
		{
			name: "clean JSON passes through unchanged",
			raw:  `{"summary":"looks fine","risk_level":"low","confidence":0.9,"red_flags":[],"inconsistencies":[],"next_steps":["none"]}`,
			expected: &Result{
				Summary:         "looks fine",
				RiskLevel:       RiskLow,
				Confidence:      0.9,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{"none"},
			},
		},
		{
			name: "JSON wrapped in prose is salvaged",
			raw:  `Sure! Here is the JSON: {"summary":"suspicious link","risk_level":"HIGH","confidence":"0.8"} Hope that helps!`,
			expected: &Result{
				Summary:         "suspicious link",
				RiskLevel:       RiskMedium, // uppercase does not match, case-sensitive
				Confidence:      0.8,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "JSON inside a code fence is salvaged",
			raw:  "```json\n{\"summary\":\"fake store\",\"risk_level\":\"high\",\"confidence\":1,\"red_flags\":[\"urgency\"],\"inconsistencies\":[],\"next_steps\":[]}\n```",
			expected: &Result{
				Summary:         "fake store",
				RiskLevel:       RiskHigh,
				Confidence:      1,
				RedFlags:        []string{"urgency"},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "unknown keys are dropped, missing keys get defaults",
			raw:  `{"summary":"ok","verdict":"scam","score":12}`,
			expected: &Result{
				Summary:         "ok",
				RiskLevel:       RiskMedium,
				Confidence:      0,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "wrong field shapes are coerced",
			raw:  `{"summary":42,"risk_level":7,"confidence":"abc","red_flags":"nope","inconsistencies":{},"next_steps":null}`,
			expected: &Result{
				Summary:         "42",
				RiskLevel:       RiskMedium,
				Confidence:      0,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "confidence is clamped to [0,1]",
			raw:  `{"risk_level":"low","confidence":3.5}`,
			expected: &Result{
				Summary:         "",
				RiskLevel:       RiskLow,
				Confidence:      1,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "negative confidence clamps to zero",
			raw:  `{"confidence":-0.2}`,
			expected: &Result{
				Summary:         "",
				RiskLevel:       RiskMedium,
				Confidence:      0,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "numeric string confidence still parses",
			raw:  `{"confidence":"0.7"}`,
			expected: &Result{
				Summary:         "",
				RiskLevel:       RiskMedium,
				Confidence:      0.7,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
		{
			name: "NaN string confidence coerces to zero",
			raw:  `{"confidence":"NaN"}`,
			expected: &Result{
				Summary:         "",
				RiskLevel:       RiskMedium,
				Confidence:      0,
				RedFlags:        []string{},
				Inconsistencies: []string{},
				NextSteps:       []string{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.raw)
			if out.IsDegraded() {
				t.Fatalf("expected structured result, got degraded: %+v", out.Degraded)
			}
			if !reflect.DeepEqual(out.Result, tt.expected) {
				t.Errorf("Normalize(%q) = %+v, want %+v", tt.raw, out.Result, tt.expected)
			}
		})
	}
}

func TestNormalizeDegraded(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain prose", "not json at all"},
		{"empty input", ""},
		{"valid JSON but an array", `[1,2,3]`},
		{"valid JSON but a string", `"hello"`},
		{"braces with garbage inside", "x {3,} y"},
		{"null literal", "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.raw)
			if !out.IsDegraded() {
				t.Fatalf("expected degraded result, got %+v", out.Result)
			}
			d := out.Degraded
			if !d.OK {
				t.Errorf("degraded result must have ok=true")
			}
			if d.Warning != "Model did not return valid JSON" {
				t.Errorf("unexpected warning %q", d.Warning)
			}
			if d.Raw != tt.raw {
				t.Errorf("raw text not echoed back: got %q, want %q", d.Raw, tt.raw)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	first := Normalize(`{"summary":"odd payment flow","risk_level":"high","confidence":"2","red_flags":["gift cards"],"next_steps":["block sender"]}`)
	if first.IsDegraded() {
		t.Fatalf("expected structured result")
	}

	encoded, err := json.Marshal(first.Result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second := Normalize(string(encoded))
	if second.IsDegraded() {
		t.Fatalf("re-normalizing produced a degraded result")
	}
	if !reflect.DeepEqual(first.Result, second.Result) {
		t.Errorf("normalize is not idempotent: %+v vs %+v", first.Result, second.Result)
	}
}

func TestNormalizePayloadShape(t *testing.T) {
	out := Normalize(`{"summary":"s"}`)
	b, err := json.Marshal(out.Payload())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"summary", "risk_level", "confidence", "red_flags", "inconsistencies", "next_steps"} {
		if _, ok := m[key]; !ok {
			t.Errorf("payload missing key %q: %s", key, b)
		}
	}
	for _, key := range []string{"red_flags", "inconsistencies", "next_steps"} {
		if _, ok := m[key].([]any); !ok {
			t.Errorf("%s must marshal as a JSON array, got %T", key, m[key])
		}
	}
}
