package interpret

import (
	"regexp"
	"strings"
)

// SanitizeFallback is rendered when a message was nothing but structured
// payload, so the chat never shows an empty bubble.
const SanitizeFallback = "plan updated above"

var blankRunRE = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)

// SanitizeForDisplay strips the structured payload out of a raw assistant
// message, leaving the human-readable remainder for chat-bubble rendering.
// Legacy commentary tags are unwrapped so their content survives verbatim;
// the legacy plan blocks and any embedded structured object are removed
// whole. Runs of three or more blank lines collapse to a single blank line
// and the result is trimmed.
func SanitizeForDisplay(raw string) string {
	out := commentsTagRE.ReplaceAllString(raw, "$1")
	for _, name := range []string{tagMultiDay, tagDailySummary, tagMeals} {
		out = removeBlock(out, name)
	}
	out = removeObjectPayload(out)
	out = blankRunRE.ReplaceAllString(out, "\n\n")
	out = strings.TrimSpace(out)
	if out == "" {
		return SanitizeFallback
	}
	return out
}

// removeBlock deletes every <name>...</name> block. An unclosed block is
// removed through the end of the text.
func removeBlock(text, name string) string {
	open := "<" + name + ">"
	closing := "</" + name + ">"
	for {
		start := strings.Index(text, open)
		if start < 0 {
			return text
		}
		rest := text[start+len(open):]
		end := strings.Index(rest, closing)
		if end < 0 {
			return text[:start]
		}
		text = text[:start] + rest[end+len(closing):]
	}
}

// removeObjectPayload deletes the first balanced object region when it is a
// structured plan payload, keeping any prose around it.
func removeObjectPayload(text string) string {
	if !strings.Contains(text, `"`+keyMealPlan+`"`) && !strings.Contains(text, `"`+keyMultiDay+`"`) {
		return text
	}
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return text
	}
	region, ok := firstBalancedObject(text)
	if !ok {
		// Unclosed payload: drop from the opening brace onwards.
		return text[:start]
	}
	return text[:start] + text[start+len(region):]
}
