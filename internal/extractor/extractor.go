package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"webwatch/internal/common"
)

// Extractor normalizes HTML markup into plain comparable text.
type Extractor struct {
	logger zerolog.Logger
}

// NewExtractor creates a new Extractor.
func NewExtractor(logger zerolog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With().Str("component", "Extractor").Logger(),
	}
}

// Extract parses markup and returns its visible text, one trimmed non-empty
// line per text fragment. Script, style and noscript subtrees are removed
// before extraction. When selector is non-empty and matches at least one
// element, extraction is scoped to the matching subtrees; when it matches
// nothing (or fails to compile) the full document is used and a warning is
// logged. Lines matching any of excludePatterns are dropped.
//
// The result depends only on the arguments; identical inputs always yield
// identical output.
func (e *Extractor) Extract(markup string, selector string, excludePatterns []*regexp.Regexp) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", common.WrapError(err, "failed to parse HTML")
	}

	doc.Find("script, style, noscript").Remove()

	roots := e.resolveScope(doc, selector)

	var lines []string
	for _, root := range roots {
		collectTextLines(root, &lines)
	}

	if len(excludePatterns) > 0 {
		lines = filterLines(lines, excludePatterns)
	}

	return strings.Join(lines, "\n"), nil
}

// resolveScope returns the nodes extraction should walk: the selector
// matches when there are any, the whole document otherwise.
func (e *Extractor) resolveScope(doc *goquery.Document, selector string) []*html.Node {
	if selector == "" {
		return doc.Selection.Nodes
	}

	selected := doc.Find(selector)
	if len(selected.Nodes) > 0 {
		e.logger.Debug().Str("selector", selector).Int("matches", len(selected.Nodes)).Msg("Applied scope selector")
		return selected.Nodes
	}

	e.logger.Warn().Str("selector", selector).Msg("Selector matched no elements, using full document")
	return doc.Selection.Nodes
}

// collectTextLines walks the node tree appending trimmed, non-empty lines
// of visible text in document order.
func collectTextLines(node *html.Node, lines *[]string) {
	if node.Type == html.TextNode {
		for _, raw := range strings.Split(node.Data, "\n") {
			line := strings.TrimSpace(raw)
			if line != "" {
				*lines = append(*lines, line)
			}
		}
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTextLines(child, lines)
	}
}

// filterLines drops any line matching at least one pattern.
func filterLines(lines []string, patterns []*regexp.Regexp) []string {
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		if lineMatchesAny(line, patterns) {
			continue
		}
		filtered = append(filtered, line)
	}
	return filtered
}

func lineMatchesAny(line string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(line) {
			return true
		}
	}
	return false
}
