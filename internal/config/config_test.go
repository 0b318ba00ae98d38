package config

import (
	"reflect"
	"testing"
)

func TestParseAuthMode(t *testing.T) {
	cases := []struct {
		raw  string
		want AuthMode
	}{
		{"dev", AuthModeDev},
		{"DEV", AuthModeDev},
		{"local", AuthModeLocal},
		{"", AuthModeLocal},
		{"something-else", AuthModeLocal},
	}
	for _, tc := range cases {
		if got := parseAuthMode(tc.raw); got != tc.want {
			t.Errorf("parseAuthMode(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestSplitEmails(t *testing.T) {
	got := splitEmails(" ops@example.com, , casters@example.com ,")
	want := []string{"ops@example.com", "casters@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitEmails = %v, want %v", got, want)
	}
	if splitEmails("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestSMTPConfigured(t *testing.T) {
	cfg := Config{SMTPHost: "smtp.example.com", SMTPUser: "bot", SMTPPass: "pw"}
	if !cfg.SMTPConfigured() {
		t.Error("fully configured SMTP reported as unconfigured")
	}
	cfg.SMTPPass = ""
	if cfg.SMTPConfigured() {
		t.Error("missing password should disable SMTP")
	}
}

func TestHasDatabase(t *testing.T) {
	if (Config{}).HasDatabase() {
		t.Error("empty DATABASE_URL should select the memory store")
	}
	if !(Config{DatabaseURL: "postgres://localhost/cs2stats"}).HasDatabase() {
		t.Error("set DATABASE_URL should select Postgres")
	}
}
