package models

// Target represents one monitored web resource. The URL is the stable key
// used for state lookups; Selector optionally scopes text extraction to a
// subtree of the fetched document.
type Target struct {
	URL      string `json:"url" yaml:"url"`
	Selector string `json:"selector,omitempty" yaml:"selector,omitempty"`
}
