package theming

import (
	"testing"

	"configly/internal/models"
)

func TestHexToHSL(t *testing.T) {
	tests := []struct {
		name string
		hex  string
		want HSL
		ok   bool
	}{
		{"platform blue", "#3b82f6", HSL{H: 217, S: 91, L: 60}, true},
		{"white", "#ffffff", HSL{H: 0, S: 0, L: 100}, true},
		{"black", "#000000", HSL{H: 0, S: 0, L: 0}, true},
		{"pure red", "#ff0000", HSL{H: 0, S: 100, L: 50}, true},
		{"short form", "#f00", HSL{H: 0, S: 100, L: 50}, true},
		{"no hash", "3b82f6", HSL{H: 217, S: 91, L: 60}, true},
		{"malformed", "#zzzzzz", Fallback, false},
		{"too short", "#3b82", Fallback, false},
		{"empty", "", Fallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := HexToHSL(tt.hex)
			if ok != tt.ok {
				t.Fatalf("HexToHSL(%q) ok = %v, want %v", tt.hex, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("HexToHSL(%q) = %+v, want %+v", tt.hex, got, tt.want)
			}
		})
	}
}

func TestParseHSLString(t *testing.T) {
	got, ok := ParseHSLString("217 91% 60%")
	if !ok || got != (HSL{H: 217, S: 91, L: 60}) {
		t.Errorf("ParseHSLString = %+v, ok=%v", got, ok)
	}

	for _, bad := range []string{"", "217 91 60", "217 91%", "400 91% 60%", "217 191% 60%"} {
		if _, ok := ParseHSLString(bad); ok {
			t.Errorf("ParseHSLString(%q) accepted malformed input", bad)
		}
	}
}

func TestFromColorFallsBack(t *testing.T) {
	if got := FromColor("not-a-color"); got != Fallback {
		t.Errorf("FromColor fallback = %+v, want %+v", got, Fallback)
	}
	if got := FromColor("217 91% 60%"); got != (HSL{H: 217, S: 91, L: 60}) {
		t.Errorf("FromColor HSL triplet = %+v", got)
	}
}

func TestCalculateTextColor(t *testing.T) {
	tests := []struct {
		name    string
		primary string
		mode    models.TextColorMode
		custom  string
		want    HSL
	}{
		{"auto light primary gets dark text", "#ffffff", models.TextColorModeAuto, "", nearBlack},
		{"auto platform blue gets dark text", "#3b82f6", models.TextColorModeAuto, "", nearBlack},
		{"auto dark primary gets light text", "#111827", models.TextColorModeAuto, "", nearWhite},
		{"forced white", "#111827", models.TextColorModeWhite, "", nearWhite},
		{"forced black", "#ffffff", models.TextColorModeBlack, "", nearBlack},
		{"custom color", "#ffffff", models.TextColorModeCustom, "#ff0000", HSL{H: 0, S: 100, L: 50}},
		{"custom malformed falls back", "#ffffff", models.TextColorModeCustom, "nope", Fallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTextColor(tt.primary, tt.mode, tt.custom)
			if got != tt.want {
				t.Errorf("CalculateTextColor = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCSSVariables(t *testing.T) {
	vars := CSSVariables(Default())

	if vars["--primary"] != "217 91% 60%" {
		t.Errorf("--primary = %q", vars["--primary"])
	}
	if vars["--ring"] != vars["--primary"] {
		t.Errorf("--ring should match --primary, got %q", vars["--ring"])
	}
	for _, key := range []string{"--primary", "--primary-foreground", "--ring", "--accent", "--accent-foreground"} {
		if vars[key] == "" {
			t.Errorf("missing variable %s", key)
		}
	}

	// Deterministic: same theme, same output.
	again := CSSVariables(Default())
	for k, v := range vars {
		if again[k] != v {
			t.Errorf("variable %s not deterministic: %q vs %q", k, v, again[k])
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve(nil); got.PrimaryColor != "#3b82f6" {
		t.Errorf("Resolve(nil) primary = %q", got.PrimaryColor)
	}

	stored := models.Theme{PrimaryColor: "#ff0000"}
	if got := Resolve(&stored); got.PrimaryColor != "#ff0000" {
		t.Errorf("Resolve(stored) primary = %q", got.PrimaryColor)
	}
}
