package interpret

import (
	"regexp"
	"strings"
)

// The commentary tag of the legacy encoding and the commentary key of the
// structured encoding. The tag matches case-insensitively; the key is an
// exact lookup.
var commentsTagRE = regexp.MustCompile(`(?is)<comments>(.*?)</comments>`)

const keyComments = "comments"

// ExtractCommentary pulls the assistant's free-text remarks out of a raw
// message, independent of which structural encoding the message uses. When
// both encodings' markers are present the legacy tag wins. The result is
// trimmed of surrounding whitespace with internal newlines preserved. The
// second return value is false when no commentary field is present at all;
// a present-but-empty field yields ("", true).
func ExtractCommentary(raw string) (string, bool) {
	if m := commentsTagRE.FindStringSubmatch(raw); m != nil {
		return strings.TrimSpace(m[1]), true
	}
	obj, err := extractObject(raw)
	if err != nil {
		return "", false
	}
	if s, ok := obj[keyComments].(string); ok {
		return strings.TrimSpace(s), true
	}
	return "", false
}
