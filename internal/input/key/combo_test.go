package key

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Ctrl+Shift+P", "ctrl+p+shift"},
		{"shift+ctrl+p", "ctrl+p+shift"},
		{"p", "p"},
		{"CMD+Z", "meta+z"},
		{"Control+Option+A", "a+alt+ctrl"},
		{"Esc", "escape"},
		{" ctrl + s ", "ctrl+s"},
		{"", ""},
		{"++", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	combos := []string{"Ctrl+Shift+P", "cmd+z", "escape", "alt+F4"}
	for _, c := range combos {
		once := Normalize(c)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", c, twice, once)
		}
	}
}

func TestCaseAndOrderEquivalence(t *testing.T) {
	if Normalize("CTRL+shift+p") != Normalize("Shift+Ctrl+P") {
		t.Error("case and modifier order should not affect normalization")
	}
}

func TestIsModifier(t *testing.T) {
	for _, m := range []string{"ctrl", "shift", "alt", "meta"} {
		if !IsModifier(m) {
			t.Errorf("IsModifier(%q) should be true", m)
		}
	}
	if IsModifier("p") {
		t.Error("IsModifier(p) should be false")
	}
}

func TestHasModifier(t *testing.T) {
	if !HasModifier("Cmd+Z", "meta") {
		t.Error("Cmd+Z should include meta")
	}
	if HasModifier("ctrl+z", "shift") {
		t.Error("ctrl+z should not include shift")
	}
}

func TestBase(t *testing.T) {
	base := Base("Ctrl+Shift+P")
	if len(base) != 1 || base[0] != "p" {
		t.Errorf("Base(Ctrl+Shift+P) = %v, want [p]", base)
	}
}
