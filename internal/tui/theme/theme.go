// Package theme defines the color themes shared by the dashboard and the
// setup wizard.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name          string
	Background    lipgloss.Color // Main app background
	Surface       lipgloss.Color // Card/panel backgrounds
	SurfaceHover  lipgloss.Color // Highlighted surface (active tab, selected row)
	SurfaceBright lipgloss.Color // Extra bright surface for emphasis
	Border        lipgloss.Color // Subtle borders
	BorderBright  lipgloss.Color // Prominent borders (cards, focus)
	BorderAccent  lipgloss.Color // Accent-colored borders for focus states
	TextDim       lipgloss.Color // Lowest contrast text (hints, disabled)
	TextMuted     lipgloss.Color // Secondary text (labels, metadata)
	TextPrimary   lipgloss.Color // Primary content text
	Accent        lipgloss.Color // Primary accent (links, active states)
	AccentBright  lipgloss.Color // Brighter accent for emphasis
	AccentDim     lipgloss.Color // Dimmed accent for backgrounds
	Green         lipgloss.Color
	GreenBright   lipgloss.Color
	Orange        lipgloss.Color
	Red           lipgloss.Color
	Blue          lipgloss.Color
	BlueBright    lipgloss.Color
	Yellow        lipgloss.Color
	Magenta       lipgloss.Color
	Cyan          lipgloss.Color
}

// Active is the currently selected theme.
var Active = Ledger

type tones struct{ bg, surface, hover, bright, border, borderBright string }

type text struct{ dim, muted, primary string }

type accent struct{ base, bright, dim string }

type hues struct {
	green, greenBright, orange, red, blue, blueBright, yellow, magenta, cyan string
}

func newTheme(name string, t tones, tx text, a accent, h hues) Theme {
	c := func(s string) lipgloss.Color { return lipgloss.Color(s) }
	return Theme{
		Name:          name,
		Background:    c(t.bg),
		Surface:       c(t.surface),
		SurfaceHover:  c(t.hover),
		SurfaceBright: c(t.bright),
		Border:        c(t.border),
		BorderBright:  c(t.borderBright),
		BorderAccent:  c(a.base),
		TextDim:       c(tx.dim),
		TextMuted:     c(tx.muted),
		TextPrimary:   c(tx.primary),
		Accent:        c(a.base),
		AccentBright:  c(a.bright),
		AccentDim:     c(a.dim),
		Green:         c(h.green),
		GreenBright:   c(h.greenBright),
		Orange:        c(h.orange),
		Red:           c(h.red),
		Blue:          c(h.blue),
		BlueBright:    c(h.blueBright),
		Yellow:        c(h.yellow),
		Magenta:       c(h.magenta),
		Cyan:          c(h.cyan),
	}
}

// Ledger is the default: warm greys with a teal accent.
var Ledger = newTheme("ledger",
	tones{"#131211", "#1E1D1B", "#2A2927", "#363432", "#42403D", "#5A5855"},
	text{"#5A5855", "#8C8983", "#F6F2E8"},
	accent{"#35A79C", "#5EC7BC", "#183331"},
	hues{green: "#84A03C", greenBright: "#A2BD5C", orange: "#D9762F", red: "#CF4F43",
		blue: "#4886BF", blueBright: "#6EA5D7", yellow: "#D3A318", magenta: "#C95E96", cyan: "#2A877E"},
)

// Harbor is a cool navy theme with a blue accent.
var Harbor = newTheme("harbor",
	tones{"#161A24", "#20263A", "#303851", "#3D4566", "#525C85", "#7781A6"},
	text{"#545D84", "#A5AED3", "#C3CCF2"},
	accent{"#76A0F2", "#A6C0FC", "#232A3D"},
	hues{green: "#98CB68", greenBright: "#B4E37C", orange: "#F79C62", red: "#F27590",
		blue: "#76A0F2", blueBright: "#A6C0FC", yellow: "#DDAE6A", magenta: "#B698F2", cyan: "#7BCBF8"},
)

// Orchard is a soft pastel theme on a dark plum base.
var Orchard = newTheme("orchard",
	tones{"#1F1D2B", "#2F3041", "#434557", "#56586C", "#56586C", "#7D8198"},
	text{"#6B6E84", "#A4AAC4", "#D0D7F0"},
	accent{"#9CD39A", "#BEEBBB", "#26352A"},
	hues{green: "#9CD39A", greenBright: "#BEEBBB", orange: "#F5B285", red: "#EE8AA5",
		blue: "#8DB3F5", blueBright: "#B2CDF8", yellow: "#F3DDAC", magenta: "#EDC0E2", cyan: "#93DDD1"},
)

// Terminal sticks to the 16 ANSI colors.
var Terminal = newTheme("terminal",
	tones{"0", "0", "8", "8", "8", "7"},
	text{"8", "7", "15"},
	accent{"6", "14", "0"},
	hues{green: "2", greenBright: "10", orange: "3", red: "1",
		blue: "4", blueBright: "12", yellow: "11", magenta: "5", cyan: "6"},
)

// All available themes.
var All = []Theme{Ledger, Harbor, Orchard, Terminal}

// ByName returns a theme by its name, defaulting to Ledger.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Ledger
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// Names lists the theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Tone picks the semantic color for a spend level given as a 0-100 percent
// of the cycle salary.
func (t Theme) Tone(pct float64) lipgloss.Color {
	switch {
	case pct >= 100:
		return t.Red
	case pct >= 80:
		return t.Orange
	case pct >= 50:
		return t.Yellow
	default:
		return t.Green
	}
}
