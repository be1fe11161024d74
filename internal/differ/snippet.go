package differ

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"webwatch/internal/common"
)

const (
	// DefaultMaxSnippetLines caps the number of change lines in a snippet.
	DefaultMaxSnippetLines = 20
	// DefaultMaxLineLength caps the length of each emitted line.
	DefaultMaxLineLength = 200
)

// SnippetBuilder produces bounded, human-readable deltas between two
// normalized texts. Build is pure and deterministic.
type SnippetBuilder struct {
	dmp           *diffmatchpatch.DiffMatchPatch
	maxLines      int
	maxLineLength int
}

// NewSnippetBuilder creates a SnippetBuilder with the default caps.
func NewSnippetBuilder() *SnippetBuilder {
	dmp := diffmatchpatch.New()
	// No deadline: diff output must not depend on wall-clock time.
	dmp.DiffTimeout = 0

	return &SnippetBuilder{
		dmp:           dmp,
		maxLines:      DefaultMaxSnippetLines,
		maxLineLength: DefaultMaxLineLength,
	}
}

// Build returns a line-oriented snippet of the changes from oldText to
// newText. An empty oldText marks a new target: the snippet is the head of
// newText rendered as pure additions. Otherwise the snippet is a
// zero-context line diff, additions prefixed "+ " and removals "- ".
// Output is capped at the line limit with a trailing omitted-count marker,
// and each line is independently truncated at the length limit.
func (b *SnippetBuilder) Build(oldText, newText string) string {
	if oldText == "" {
		return b.buildNewTargetSnippet(newText)
	}
	return b.buildChangeSnippet(oldText, newText)
}

func (b *SnippetBuilder) buildNewTargetSnippet(newText string) string {
	lines := splitLines(newText)
	if len(lines) == 0 {
		return ""
	}

	emitted := lines
	if len(emitted) > b.maxLines {
		emitted = emitted[:b.maxLines]
	}

	out := make([]string, 0, len(emitted)+1)
	for _, line := range emitted {
		out = append(out, common.TruncateString("+ "+line, b.maxLineLength))
	}
	if omitted := len(lines) - b.maxLines; omitted > 0 {
		out = append(out, fmt.Sprintf("... (%d more lines)", omitted))
	}
	return strings.Join(out, "\n")
}

func (b *SnippetBuilder) buildChangeSnippet(oldText, newText string) string {
	changeLines := b.lineDiff(oldText, newText)
	if len(changeLines) == 0 {
		return ""
	}

	emitted := changeLines
	if len(emitted) > b.maxLines {
		emitted = emitted[:b.maxLines]
	}

	out := make([]string, 0, len(emitted)+1)
	for _, line := range emitted {
		out = append(out, common.TruncateString(line, b.maxLineLength))
	}
	if omitted := len(changeLines) - b.maxLines; omitted > 0 {
		out = append(out, fmt.Sprintf("... (%d more changes)", omitted))
	}
	return strings.Join(out, "\n")
}

// lineDiff computes a line-level diff and returns only the changed lines,
// in document order, with no context lines and no header lines.
func (b *SnippetBuilder) lineDiff(oldText, newText string) []string {
	oldChars, newChars, lineIndex := b.dmp.DiffLinesToChars(oldText, newText)
	diffs := b.dmp.DiffMain(oldChars, newChars, false)
	diffs = b.dmp.DiffCharsToLines(diffs, lineIndex)

	var changeLines []string
	for _, diff := range diffs {
		var prefix string
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
		case diffmatchpatch.DiffDelete:
			prefix = "- "
		default:
			continue
		}
		for _, line := range splitLines(diff.Text) {
			changeLines = append(changeLines, prefix+line)
		}
	}
	return changeLines
}

// splitLines splits on newlines, dropping a trailing empty element so that
// text without a final newline and text with one produce the same lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
