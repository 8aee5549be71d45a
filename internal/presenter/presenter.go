// Package presenter maps normalized prediction pairs to display units:
// badge text, progress width and a color pair.
package presenter

import (
	"fmt"
	"math/rand/v2"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
)

type ColorPair struct {
	Background string `yaml:"bg" json:"bg"`
	Text       string `yaml:"text" json:"text"`
}

var DefaultPalette = []ColorPair{
	{Background: "purple-200", Text: "purple-600"},
	{Background: "blue-200", Text: "blue-600"},
	{Background: "red-200", Text: "red-600"},
	{Background: "green-200", Text: "green-600"},
	{Background: "pink-200", Text: "pink-600"},
	{Background: "yellow-200", Text: "yellow-600"},
}

// ColorPicker returns an index in [0, n).
type ColorPicker func(n int) int

// RandomPicker draws uniformly on every call; nothing is seeded or remembered.
func RandomPicker(n int) int {
	return rand.IntN(n)
}

type DisplayUnit struct {
	Label      string    `json:"label"`
	Percentage string    `json:"percentage"`
	Badge      string    `json:"badge"`
	Width      float64   `json:"width"`
	Color      ColorPair `json:"color"`
}

type Presenter struct {
	palette []ColorPair
	pick    ColorPicker
}

func New(palette []ColorPair, pick ColorPicker) *Presenter {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	if pick == nil {
		pick = RandomPicker
	}
	return &Presenter{palette: palette, pick: pick}
}

// Present renders one unit per pair in result order. Colors are drawn
// again on every call.
func (p *Presenter) Present(variant domain.Variant, result domain.Result) []DisplayUnit {
	units := make([]DisplayUnit, 0, len(result))
	for _, pair := range result {
		text, width := Percentage(variant, pair.Probability)
		units = append(units, DisplayUnit{
			Label:      pair.Label,
			Percentage: text,
			Badge:      fmt.Sprintf("%s: %s%%", pair.Label, text),
			Width:      width,
			Color:      p.palette[p.pick(len(p.palette))],
		})
	}
	return units
}
