package common

// TruncateString shortens s to at most max runes, appending "..." when
// anything was cut off.
func TruncateString(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
