package models

// TargetState is the persisted per-target record. Timestamps are stored as
// RFC3339 strings; an empty string means the field has never been set.
//
// Fingerprint is non-empty iff the target has ever been fetched and
// normalized successfully. NormalizedText holds the text behind Fingerprint
// and serves as the baseline for the next diff.
type TargetState struct {
	URL            string
	Fingerprint    string
	NormalizedText string
	ETag           string
	LastModified   string
	LastCheckedAt  string
	LastChangedAt  string
	LastNotifiedAt string
	ErrorCount     int
	LastError      string
}

// StateUpdate is a partial update against a TargetState row. Nil fields are
// left untouched. Applying an update to a URL without a row creates the row
// first, so targets need no explicit registration step.
type StateUpdate struct {
	Fingerprint    *string
	NormalizedText *string
	ETag           *string
	LastModified   *string
	LastCheckedAt  *string
	LastChangedAt  *string
	LastNotifiedAt *string
	ErrorCount     *int
	LastError      *string
}

// String returns a pointer to s, for building StateUpdate literals.
func String(s string) *string { return &s }

// Int returns a pointer to i, for building StateUpdate literals.
func Int(i int) *int { return &i }
