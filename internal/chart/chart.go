// Package chart turns KPI series into ChartConfig payloads for API clients
// and renders them to PNG server-side.
package chart

import (
	"bytes"
	"fmt"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Chart types understood by RenderPNG.
const (
	TypeLine = "line"
	TypeBar  = "bar"
	TypePie  = "pie"
)

// Point is one labelled value of a series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one named data series.
type Series struct {
	Name string  `json:"name"`
	Data []Point `json:"data"`
}

// Config is the renderer-agnostic chart description served to API clients.
type Config struct {
	ChartType string   `json:"chartType"`
	Title     string   `json:"title"`
	XAxis     string   `json:"xAxis"`
	YAxis     string   `json:"yAxis"`
	Series    []Series `json:"series"`
}

// Empty reports whether the config has no data points at all.
func (c Config) Empty() bool {
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

const (
	renderWidth  = 900
	renderHeight = 420
)

// RenderPNG renders a config to a PNG image.
func RenderPNG(cfg Config) ([]byte, error) {
	if cfg.Empty() {
		return nil, fmt.Errorf("chart %q has no data", cfg.Title)
	}
	switch cfg.ChartType {
	case TypeLine:
		return renderLine(cfg)
	case TypeBar:
		return renderBar(cfg)
	case TypePie:
		return renderPie(cfg)
	}
	return nil, fmt.Errorf("unknown chart type %q", cfg.ChartType)
}

func renderLine(cfg Config) ([]byte, error) {
	series, ticks := lineSeries(cfg)
	ch := gochart.Chart{
		Title:  cfg.Title,
		Width:  renderWidth,
		Height: renderHeight,
		XAxis:  gochart.XAxis{Name: cfg.XAxis, Ticks: ticks},
		YAxis:  gochart.YAxis{Name: cfg.YAxis},
		Series: series,
	}
	if len(series) > 1 {
		ch.Elements = []gochart.Renderable{gochart.Legend(&ch)}
	}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render line chart: %w", err)
	}
	return buf.Bytes(), nil
}

// lineSeries places every series on one shared label axis. A series whose
// labels continue past another's, like a projection following the observed
// months, starts at the x-position after them instead of back at zero.
// Series without data are dropped.
func lineSeries(cfg Config) ([]gochart.Series, []gochart.Tick) {
	var labels []string
	position := map[string]int{}
	for _, s := range cfg.Series {
		for _, p := range s.Data {
			if _, ok := position[p.Label]; !ok {
				position[p.Label] = len(labels)
				labels = append(labels, p.Label)
			}
		}
	}

	series := make([]gochart.Series, 0, len(cfg.Series))
	for _, s := range cfg.Series {
		if len(s.Data) == 0 {
			continue
		}
		xs := make([]float64, 0, len(s.Data))
		ys := make([]float64, 0, len(s.Data))
		for _, p := range s.Data {
			xs = append(xs, float64(position[p.Label]))
			ys = append(ys, p.Value)
		}
		// go-chart refuses to draw a single-point series; repeat the point.
		if len(xs) == 1 {
			xs = append(xs, xs[0]+1)
			ys = append(ys, ys[0])
		}
		series = append(series, gochart.ContinuousSeries{Name: s.Name, XValues: xs, YValues: ys})
	}
	return series, labelTicks(labels)
}

// labelTicks thins the X labels so long series stay readable.
func labelTicks(labels []string) []gochart.Tick {
	step := 1
	if len(labels) > 12 {
		step = len(labels) / 12
	}
	var ticks []gochart.Tick
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, gochart.Tick{Value: float64(i), Label: labels[i]})
	}
	if len(ticks) == 1 {
		ticks = append(ticks, gochart.Tick{Value: 1, Label: ""})
	}
	return ticks
}

func renderBar(cfg Config) ([]byte, error) {
	if len(cfg.Series) == 0 {
		return nil, fmt.Errorf("chart %q has no series", cfg.Title)
	}
	bars := make([]gochart.Value, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		bars = append(bars, gochart.Value{Label: p.Label, Value: p.Value})
	}
	if len(bars) == 1 {
		bars = append(bars, gochart.Value{Label: "", Value: 0})
	}
	ch := gochart.BarChart{
		Title:    cfg.Title,
		Width:    renderWidth,
		Height:   renderHeight,
		BarWidth: 50,
		YAxis:    gochart.YAxis{Name: cfg.YAxis},
		Bars:     bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render bar chart: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPie(cfg Config) ([]byte, error) {
	if len(cfg.Series) == 0 {
		return nil, fmt.Errorf("chart %q has no series", cfg.Title)
	}
	values := make([]gochart.Value, 0, len(cfg.Series[0].Data))
	for _, p := range cfg.Series[0].Data {
		if p.Value <= 0 {
			continue
		}
		values = append(values, gochart.Value{Label: p.Label, Value: p.Value})
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("chart %q has no positive slices", cfg.Title)
	}
	ch := gochart.PieChart{
		Title:  cfg.Title,
		Width:  renderHeight,
		Height: renderHeight,
		Values: values,
	}
	var buf bytes.Buffer
	if err := ch.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render pie chart: %w", err)
	}
	return buf.Bytes(), nil
}
