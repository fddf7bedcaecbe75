package model

import (
	"regexp"
	"strings"
	"testing"
)

var hexDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

func TestFingerprint_DeterministicHex(t *testing.T) {
	inputs := []string{"", "https://x.test/job/1", "https://jobs.lever.co/acme/ff7ef527", "ünïcode"}
	for _, in := range inputs {
		a := Fingerprint(in)
		b := Fingerprint(in)
		if a != b {
			t.Errorf("Fingerprint(%q) not stable: %s vs %s", in, a, b)
		}
		if !hexDigest.MatchString(a) {
			t.Errorf("Fingerprint(%q) = %q, want 64 lowercase hex chars", in, a)
		}
	}
}

func TestFingerprint_KnownValue(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Fingerprint("abc"); got != want {
		t.Errorf("Fingerprint(abc) = %s, want %s", got, want)
	}
}

func TestFingerprint_DistinctURLs(t *testing.T) {
	if Fingerprint("https://x.test/job/1") == Fingerprint("https://x.test/job/2") {
		t.Error("expected distinct digests for distinct URLs")
	}
}

func TestSearchText(t *testing.T) {
	j := Job{Title: "AI Engineer", Location: "Berlin", Description: "Build models"}
	if got := j.SearchText(); got != "AI Engineer Berlin Build models" {
		t.Errorf("SearchText() = %q", got)
	}

	empty := Job{Title: "Engineer"}
	if got := empty.SearchText(); got != "Engineer  " {
		t.Errorf("SearchText() with empty fields = %q", got)
	}
}

func TestTruncateDescription(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
	}{
		{"short unchanged", "Build models", 12},
		{"exactly max", strings.Repeat("a", 400), 400},
		{"long truncated", strings.Repeat("a", 1000), 400},
		{"multibyte counted as characters", strings.Repeat("é", 450), 400},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateDescription(tt.input)
			if n := len([]rune(got)); n != tt.wantLen {
				t.Errorf("len = %d, want %d", n, tt.wantLen)
			}
			if !strings.HasPrefix(tt.input, got) {
				t.Error("truncated text is not a prefix of the input")
			}
		})
	}
}
