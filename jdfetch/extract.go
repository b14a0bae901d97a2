package jdfetch

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// extractText pulls the visible text out of an HTML document: script,
// style and noscript content is dropped, remaining text nodes are joined
// with single spaces and runs of whitespace collapsed.
func extractText(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))

	var parts []string
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) {
				skipDepth++
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if isInvisibleTag(string(name)) && skipDepth > 0 {
				skipDepth--
			}
		case html.TextToken:
			if skipDepth > 0 {
				continue
			}
			// Fields collapses internal whitespace runs.
			for _, word := range strings.Fields(string(tokenizer.Text())) {
				parts = append(parts, word)
			}
		}
	}
}

func isInvisibleTag(name string) bool {
	switch name {
	case "script", "style", "noscript":
		return true
	}
	return false
}
