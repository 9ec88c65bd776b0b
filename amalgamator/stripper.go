package amalgamator

import "strings"

// StripComments replaces every `//` and `/* */` comment in text with a single
// space. Single- and double-quoted literals are copied untouched, so comment
// markers inside them survive. A block comment missing its closing marker runs
// to the end of the input.
func StripComments(text string) string {
	var out strings.Builder
	out.Grow(len(text))

	// Once a quote has no closing partner, no later quote of the same kind has one either.
	var unclosed [2]bool

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == '"' || c == '\'':
			kind := quoteKind(c)
			if !unclosed[kind] {
				if end, ok := literalEnd(text, i); ok {
					out.WriteString(text[i:end])
					i = end
					continue
				}
				unclosed[kind] = true
			}
		case c == '/' && i+1 < len(text) && text[i+1] == '/':
			i = lineCommentEnd(text, i+2)
			out.WriteByte(' ')
			continue
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			i = blockCommentEnd(text, i+2)
			out.WriteByte(' ')
			continue
		}
		out.WriteByte(c)
		i++
	}

	return out.String()
}

func quoteKind(q byte) int {
	if q == '"' {
		return 0
	}
	return 1
}

// literalEnd returns the index just past the quote closing the literal opened at start.
func literalEnd(text string, start int) (int, bool) {
	quote := text[start]
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case quote:
			return i + 1, true
		}
	}
	return 0, false
}

// lineCommentEnd keeps the terminating newline out of the comment.
func lineCommentEnd(text string, from int) int {
	if idx := strings.IndexByte(text[from:], '\n'); idx >= 0 {
		return from + idx
	}
	return len(text)
}

func blockCommentEnd(text string, from int) int {
	if idx := strings.Index(text[from:], "*/"); idx >= 0 {
		return from + idx + 2
	}
	return len(text)
}
