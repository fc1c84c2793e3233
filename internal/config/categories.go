package config

import (
	"strings"
	"unicode"

	"github.com/theirongolddev/paycycle/internal/model"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// CategoryInfo describes how a category is displayed.
type CategoryInfo struct {
	Name  string
	Icon  string
	Color string // hex, used by the TUI charts
}

// DefaultCategories maps canonical category names to display info.
var DefaultCategories = map[string]CategoryInfo{
	model.CategoryFood:      {Name: model.CategoryFood, Icon: "F", Color: "#DA702C"},
	model.CategoryHousing:   {Name: model.CategoryHousing, Icon: "H", Color: "#4385BE"},
	model.CategoryTransport: {Name: model.CategoryTransport, Icon: "T", Color: "#879A39"},
	model.CategoryLeisure:   {Name: model.CategoryLeisure, Icon: "L", Color: "#CE5D97"},
	model.CategoryHealth:    {Name: model.CategoryHealth, Icon: "+", Color: "#D14D41"},
	model.CategoryEducation: {Name: model.CategoryEducation, Icon: "E", Color: "#8B7EC8"},
	model.CategoryClothing:  {Name: model.CategoryClothing, Icon: "C", Color: "#D0A215"},
	model.CategoryOther:     {Name: model.CategoryOther, Icon: "?", Color: "#878580"},
}

// categoryAliases maps folded legacy names to canonical categories.
var categoryAliases = map[string]string{
	"alimentacao": model.CategoryFood,
	"comida":      model.CategoryFood,
	"mercado":     model.CategoryFood,
	"groceries":   model.CategoryFood,
	"moradia":     model.CategoryHousing,
	"casa":        model.CategoryHousing,
	"aluguel":     model.CategoryHousing,
	"rent":        model.CategoryHousing,
	"transporte":  model.CategoryTransport,
	"lazer":       model.CategoryLeisure,
	"saude":       model.CategoryHealth,
	"educacao":    model.CategoryEducation,
	"vestuario":   model.CategoryClothing,
	"roupas":      model.CategoryClothing,
	"outros":      model.CategoryOther,
	"outro":       model.CategoryOther,
}

// NormalizeCategory maps a raw category name onto the fixed category set.
// Canonical names and legacy aliases match case- and accent-insensitively.
// Empty or unknown names become model.CategoryOther.
// e.g., "Alimentação" -> "Food", "HOUSING" -> "Housing"
func NormalizeCategory(raw string) string {
	key := foldName(raw)
	if key == "" {
		return model.CategoryOther
	}
	for _, c := range model.Categories {
		if strings.ToLower(c) == key {
			return c
		}
	}
	if c, ok := categoryAliases[key]; ok {
		return c
	}
	return model.CategoryOther
}

// LookupCategory returns display info for a category, falling back to Other.
func LookupCategory(name string) CategoryInfo {
	if info, ok := DefaultCategories[name]; ok {
		return info
	}
	return DefaultCategories[model.CategoryOther]
}

func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.TrimSpace(s))
	if err != nil {
		out = strings.TrimSpace(s)
	}
	return strings.ToLower(out)
}
