package schema

import (
	"errors"
	"testing"
)

func TestNormalizeCommand(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"help", "help"},
		{"  HELP  ", "help"},
		{"\tStatus\n", "status"},
		{"who  am i", "who  am i"},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := NormalizeCommand(tc.raw); got != tc.want {
			t.Fatalf("NormalizeCommand(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeRevealMode(t *testing.T) {
	if mode, err := NormalizeRevealMode(""); err != nil || mode != RevealTypewriter {
		t.Fatalf("expected typewriter default, got %q (%v)", mode, err)
	}
	if mode, err := NormalizeRevealMode(" Decrypt "); err != nil || mode != RevealScramble {
		t.Fatalf("expected scramble alias, got %q (%v)", mode, err)
	}
	if _, err := NormalizeRevealMode("fade"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}

func TestValidateSessionID(t *testing.T) {
	cases := []struct {
		name  string
		id    SessionID
		valid bool
	}{
		{"hex", "0a1b2c3d", true},
		{"empty", "", false},
		{"uppercase", "0A1B", false},
		{"path", "../etc", false},
	}
	for _, tc := range cases {
		err := ValidateSessionID(tc.id)
		if tc.valid && err != nil {
			t.Fatalf("case %q expected valid, got error: %v", tc.name, err)
		}
		if !tc.valid && err == nil {
			t.Fatalf("case %q expected error, got nil", tc.name)
		}
	}
}

func TestNormalizeThemeName(t *testing.T) {
	if name, ok := NormalizeThemeName(" SOC "); !ok || name != "emerald" {
		t.Fatalf("expected emerald alias, got %q (%v)", name, ok)
	}
	if name, ok := NormalizeThemeName("Outrun_Electric"); !ok || name != ThemeOutrun {
		t.Fatalf("expected outrun alias, got %q (%v)", name, ok)
	}
	for _, theme := range AvailableThemes() {
		if name, ok := NormalizeThemeName(string(theme)); !ok || name != theme {
			t.Fatalf("canonical theme %q did not resolve to itself", theme)
		}
	}
	if _, ok := NormalizeThemeName("solarized"); ok {
		t.Fatalf("unexpected theme accepted")
	}
}
