package ask

import "strings"

// sentinelTokens are model control tokens that some backends leak into
// generated text.
var sentinelTokens = []string{
	"<｜begin▁of▁sentence｜>",
	"<｜end▁of▁sentence｜>",
}

// sanitizeAnswer strips known control tokens and surrounding whitespace
// from generated text.
func sanitizeAnswer(text string) string {
	for _, tok := range sentinelTokens {
		text = strings.ReplaceAll(text, tok, "")
	}
	return strings.TrimSpace(text)
}
