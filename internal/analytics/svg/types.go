// Package svg renders small dependency-free SVG charts for the analytics
// endpoints.
package svg

// RankOpts customises the ranking chart renderer.
type RankOpts struct {
	Title       string
	Description string
	Unit        string
	BarColor    string
	TextColor   string
	GridColor   string
	Padding     float64
	LabelWidth  float64
	BarHeight   float64
}

// Defaults for the analytics charts.
const (
	DefaultWidth      = 640
	DefaultPadding    = 16.0
	DefaultLabelWidth = 180.0
	DefaultBarHeight  = 22.0
)
