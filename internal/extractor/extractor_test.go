package extractor

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkup = `<html>
<head>
<title>Example</title>
<script>var tracked = Date.now();</script>
<style>.hidden { display: none; }</style>
</head>
<body>
<noscript>Please enable JavaScript</noscript>
<div id="main">
  <p>Hello</p>
  <p>World</p>
</div>
<div id="footer">Copyright 2024</div>
</body>
</html>`

func TestExtractor_Extract_RemovesNonVisibleElements(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	text, err := e.Extract(sampleMarkup, "", nil)
	require.NoError(t, err)

	assert.NotContains(t, text, "tracked")
	assert.NotContains(t, text, "display: none")
	assert.NotContains(t, text, "enable JavaScript")
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "Copyright 2024")
}

func TestExtractor_Extract_SelectorScopesOutput(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	text, err := e.Extract(sampleMarkup, "#main", nil)
	require.NoError(t, err)

	assert.Equal(t, "Hello\nWorld", text)
}

func TestExtractor_Extract_SelectorFallsBackToFullDocument(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	text, err := e.Extract(sampleMarkup, "#does-not-exist", nil)
	require.NoError(t, err)

	// Full document, not an empty result.
	assert.Contains(t, text, "Hello")
	assert.Contains(t, text, "Copyright 2024")
}

func TestExtractor_Extract_ExcludePatternsDropMatchingLines(t *testing.T) {
	e := NewExtractor(zerolog.Nop())
	patterns := CompileExcludePatterns([]string{`^Copyright`}, zerolog.Nop())

	text, err := e.Extract(sampleMarkup, "", patterns)
	require.NoError(t, err)

	assert.NotContains(t, text, "Copyright")
	assert.Contains(t, text, "Hello")
}

func TestExtractor_Extract_EmptyInput(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	text, err := e.Extract("", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtractor_Extract_TrimsAndDropsEmptyLines(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	text, err := e.Extract("<body><p>  padded  </p><p>   </p><p>next</p></body>", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "padded\nnext", text)
}

func TestExtractor_Extract_Deterministic(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	first, err := e.Extract(sampleMarkup, "#main", nil)
	require.NoError(t, err)
	second, err := e.Extract(sampleMarkup, "#main", nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompileExcludePatterns_SkipsInvalidPatterns(t *testing.T) {
	patterns := CompileExcludePatterns([]string{`valid.*`, `[broken`, `^also-valid$`}, zerolog.Nop())

	// One bad pattern never discards the others.
	require.Len(t, patterns, 2)
	assert.True(t, patterns[0].MatchString("valid pattern"))
	assert.True(t, patterns[1].MatchString("also-valid"))
}
