package ui

import "testing"

func TestGetTheme_KnownAndFallback(t *testing.T) {
	if got := GetTheme("Nightfox"); got.Name != "Nightfox" {
		t.Errorf("GetTheme(Nightfox).Name = %q", got.Name)
	}
	if got := GetTheme("nope"); got.Name != "Dracula" {
		t.Errorf("unknown theme should fall back to Dracula, got %q", got.Name)
	}
}

func TestNextTheme_CyclesThroughAll(t *testing.T) {
	seen := map[string]bool{}
	name := themeOrder[0]
	for range themeOrder {
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themeOrder[0] {
		t.Errorf("cycle did not wrap, ended on %q", name)
	}
	for _, want := range themeOrder {
		if !seen[want] {
			t.Errorf("cycle skipped %q", want)
		}
	}
}

func TestNextTheme_UnknownResets(t *testing.T) {
	if got := NextTheme("nope"); got != themeOrder[0] {
		t.Errorf("NextTheme(unknown) = %q, want %q", got, themeOrder[0])
	}
}

func TestThemes_HaveRequiredColors(t *testing.T) {
	for name, theme := range themes {
		if theme.Name != name {
			t.Errorf("theme %q has Name %q", name, theme.Name)
		}
		if theme.Text == "" || theme.Accent == "" || theme.Danger == "" {
			t.Errorf("theme %q is missing core colors", name)
		}
	}
}
