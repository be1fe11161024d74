package notifier

import (
	"fmt"
	"strings"
	"time"

	"webwatch/internal/models"
)

const fingerprintPreviewLength = 16

// BuildDigestText renders the change digest as plain text: a run summary
// followed by one block per change with its diff snippet.
func BuildDigestText(decisions []models.ChangeDecision, targetsChecked int, runTime time.Time) string {
	var b strings.Builder

	b.WriteString("Website Change Report\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "Run time: %s\n", runTime.UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(&b, "Targets checked: %d\n", targetsChecked)
	fmt.Fprintf(&b, "Changes detected: %d\n\n", len(decisions))

	for i, decision := range decisions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, decision.URL)
		if decision.IsNew {
			b.WriteString("   Status: NEW TARGET\n")
		} else {
			fmt.Fprintf(&b, "   Previous fingerprint: %s...\n", fingerprintPreview(decision.PreviousFingerprint))
			fmt.Fprintf(&b, "   New fingerprint:      %s...\n", fingerprintPreview(decision.NewFingerprint))
		}
		b.WriteString("\n   Changes:\n")
		b.WriteString("   " + strings.Repeat("-", 56) + "\n")
		for _, line := range strings.Split(decision.DiffSnippet, "\n") {
			b.WriteString("   " + line + "\n")
		}
		b.WriteString("   " + strings.Repeat("-", 56) + "\n\n")
	}

	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("This is an automated message from webwatch.")

	return b.String()
}

func fingerprintPreview(fingerprint string) string {
	if len(fingerprint) <= fingerprintPreviewLength {
		return fingerprint
	}
	return fingerprint[:fingerprintPreviewLength]
}

// chunkText splits text into pieces of at most limit bytes, preferring line
// boundaries. A single line longer than the limit is split mid-line.
func chunkText(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			if current.Len() > 0 {
				chunks = append(chunks, current.String())
				current.Reset()
			}
			chunks = append(chunks, line[:limit])
			line = line[limit:]
		}
		if current.Len() > 0 && current.Len()+len(line)+1 > limit {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
