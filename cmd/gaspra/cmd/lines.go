package cmd

import "strings"

// splitLines breaks file content into a token sequence of lines,
// keeping line terminators out of the tokens themselves. It is the
// thin, built-in splitter this CLI demo uses in place of a real
// tokenizer, which spec.md keeps external to the library.
func splitLines(content []byte) []string {
	text := string(content)
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n")
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
