package prompt

import (
	"fmt"
	"strings"

	"github.com/bryanwahyu/scamlens/internal/domain/analysis"
)

const template = `You are a digital safety / scam-risk analysis assistant.
Return ONLY valid JSON.

Schema:
{
  "summary": string,
  "risk_level": "low" | "medium" | "high",
  "confidence": number, // 0..1
  "red_flags": string[],
  "inconsistencies": string[],
  "next_steps": string[]
}

Context:
- messages_text: user pasted conversation or text
- user_context: any background about user/situation
- link_url: url pasted by user
- extra_notes: additional notes by user

messages_text:
%s

user_context:
%s

link_url:
%s

extra_notes:
%s`

// Build renders the analyst prompt for one request.
func Build(req analysis.Request) string {
	return strings.TrimSpace(fmt.Sprintf(template,
		req.MessagesText,
		req.UserContext,
		req.LinkURL,
		req.ExtraNotes,
	))
}

// Annotate appends a note (image fetch failures, skip reasons) to a prompt.
func Annotate(prompt, note string) string {
	if note == "" {
		return prompt
	}
	return prompt + "\n\n" + note
}
