package theme

import (
	"reflect"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestEveryThemeSetsEveryColor(t *testing.T) {
	for _, th := range All {
		v := reflect.ValueOf(th)
		for i := 0; i < v.NumField(); i++ {
			c, ok := v.Field(i).Interface().(lipgloss.Color)
			if ok && c == "" {
				t.Errorf("%s: %s is empty", th.Name, v.Type().Field(i).Name)
			}
		}
	}
}

func TestByNameFallsBackToLedger(t *testing.T) {
	if got := ByName("harbor"); got.Name != "harbor" {
		t.Errorf("ByName(harbor) = %q", got.Name)
	}
	if got := ByName("solarized"); got.Name != Ledger.Name {
		t.Errorf("ByName(unknown) = %q, want %q", got.Name, Ledger.Name)
	}
	if Valid("solarized") || !Valid("terminal") {
		t.Error("Valid disagrees with All")
	}
}

func TestTone(t *testing.T) {
	th := Terminal
	tests := []struct {
		pct  float64
		want lipgloss.Color
	}{
		{0, th.Green},
		{50, th.Yellow},
		{80, th.Orange},
		{100, th.Red},
		{140, th.Red},
	}
	for _, tt := range tests {
		if got := th.Tone(tt.pct); got != tt.want {
			t.Errorf("Tone(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}
