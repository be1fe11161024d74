package monitor

import "testing"

func TestFingerprintText(t *testing.T) {
	// Known SHA-256 vectors keep the fingerprint format pinned.
	if got := FingerprintText(""); got != "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855" {
		t.Errorf("unexpected fingerprint for empty text: %s", got)
	}

	if FingerprintText("hello") != FingerprintText("hello") {
		t.Error("fingerprint is not deterministic")
	}
	if FingerprintText("hello") == FingerprintText("hello ") {
		t.Error("distinct texts produced the same fingerprint")
	}
	if len(FingerprintText("anything")) != 64 {
		t.Error("fingerprint is not a 64-character hex digest")
	}
}
