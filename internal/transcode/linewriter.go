package transcode

import "strings"

// LineWriter accumulates emitted text one line at a time.
type LineWriter struct {
	lines []string
}

// AppendLine adds line to the output.
func (w *LineWriter) AppendLine(line string) {
	w.lines = append(w.lines, line)
}

// Len is the number of lines written so far.
func (w *LineWriter) Len() int {
	return len(w.lines)
}

// String joins the lines with newlines and terminates the text with one.
func (w *LineWriter) String() string {
	return strings.Join(w.lines, "\n") + "\n"
}
