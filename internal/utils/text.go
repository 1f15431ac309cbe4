package utils

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var (
	htmlTagRe   = regexp.MustCompile(`(?i)<\s*/?\s*[a-z][a-z0-9]*[^>]*>`)
	blankRunsRe = regexp.MustCompile(`\n{3,}`)
)

// PlainText turns a posting body that may contain HTML into readable text.
// Input without markup is returned trimmed.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !htmlTagRe.MatchString(s) {
		return s
	}

	md, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return strings.TrimSpace(htmlTagRe.ReplaceAllString(s, " "))
	}
	return strings.TrimSpace(blankRunsRe.ReplaceAllString(md, "\n\n"))
}
