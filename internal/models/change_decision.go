package models

// ChangeDecision represents one detected, notification-eligible content
// change. Decisions are collected per run in target order and handed to the
// digest sender exactly once.
type ChangeDecision struct {
	URL                 string
	PreviousFingerprint string // empty when the target had no prior state
	NewFingerprint      string
	DiffSnippet         string
	IsNew               bool
}
