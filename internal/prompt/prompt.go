package prompt

import (
	"strings"

	"cv-review/internal/shared/util"
)

// NotCVReply is the exact sentence the model is told to return for non-CV input.
const NotCVReply = "This file must be a CV."

const header = `You are an experienced HR professional.

I will give you a CV as raw text.

If the file is NOT a CV, reply with exactly one sentence: "` + NotCVReply + `" with no other text.

If it IS a CV, analyze it and respond using the exact following structure in English. Your answer should only include plain lines with no symbols (no stars, bullets, dashes, or numbers). Each point should be in a new line so it can be formatted separately.

Structure:
Overall Rating (out of 10): (number here)

Strengths:
[Write each strength in a new line]

Weaknesses Areas for Improvement:
[Write each weakness in a new line]

Suggestions for Improvement:
[Write each suggestion in a new line]

Do not include any introductions or conclusions. Keep the format consistent every time.

Now analyze this CV:
`

// Build wraps extracted CV text in the evaluation template.
func Build(cvText string) string {
	var b strings.Builder
	b.Grow(len(header) + len(cvText) + 1)
	b.WriteString(header)
	b.WriteString(cvText)
	if !strings.HasSuffix(cvText, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

// Hash returns the hex SHA-256 of a built prompt. It keys the response cache and is
// stored on review records.
func Hash(p string) string {
	return util.HashHex(p)
}
