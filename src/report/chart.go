package report

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/selvaganesh19/EV-Battery-Management-System-using-Deep-Learning/src/bmsclient"
)

// Bar colors match the backend's matplotlib palette so the local fallback
// chart reads like the server-rendered one.
var (
	originalBarColor  = drawing.ColorFromHex("2E86AB")
	predictedBarColor = drawing.ColorFromHex("A23B72")
)

// Blank returns a neutral dark image used when nothing can be rendered.
func Blank(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 24, G: 24, B: 28, A: 255})
		}
	}
	return img
}

// Placeholder draws the "chart unavailable" image shown when the backend
// image cannot be loaded and no table data exists to chart locally.
func Placeholder(w, h int, text string) image.Image {
	base := Blank(w, h)
	rgba, ok := base.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(base.Bounds())
		draw.Draw(rgba, rgba.Bounds(), base, image.Point{}, draw.Src)
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{R: 235, G: 235, B: 235, A: 255}),
		Face: face,
	}
	tw := dr.MeasureString(text).Ceil()
	x := (w - tw) / 2
	if x < 4 {
		x = 4
	}
	y := h/2 + face.Metrics().Ascent.Ceil()/2
	// Shadow first for contrast, then the text itself.
	shadow := &font.Drawer{Dst: rgba, Src: image.NewUniform(color.RGBA{A: 200}), Face: face,
		Dot: fixed.Point26_6{X: fixed.I(x + 1), Y: fixed.I(y + 1)}}
	shadow.DrawString(text)
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
	return rgba
}

// RenderComparisonChart draws a grouped original-vs-predicted bar chart from
// the rendered rows. Used as the rich placeholder when the backend chart
// image fails to load, and by the CLI to save a chart without the backend
// PNG. Falls back to a text placeholder on any render error.
func RenderComparisonChart(rows []Row, w, h int) image.Image {
	if len(rows) == 0 {
		return Placeholder(w, h, "Chart unavailable")
	}
	bars := make([]chart.Value, 0, len(rows)*2)
	for _, r := range rows {
		label := truncateLabel(r.Parameter, 14)
		bars = append(bars,
			chart.Value{Value: r.Original, Label: label, Style: chart.Style{
				FillColor: originalBarColor, StrokeColor: originalBarColor,
			}},
			chart.Value{Value: r.Predicted, Label: "", Style: chart.Style{
				FillColor: predictedBarColor, StrokeColor: predictedBarColor,
			}},
		)
	}
	barWidth := (w - 80) / (len(bars) + 2)
	if barWidth < 6 {
		barWidth = 6
	}
	if barWidth > 40 {
		barWidth = 40
	}
	ch := chart.BarChart{
		Title:      "Battery Parameters: Original vs Predicted (local render)",
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 12, Bottom: 48}},
		Width:      w,
		Height:     h,
		BarWidth:   barWidth,
		BarSpacing: 4,
		Bars:       bars,
	}
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		bmsclient.Warnf("local chart render failed: %v", err)
		return Placeholder(w, h, "Chart unavailable")
	}
	img, err := png.Decode(&buf)
	if err != nil {
		bmsclient.Warnf("local chart decode failed: %v", err)
		return Placeholder(w, h, "Chart unavailable")
	}
	return img
}

func truncateLabel(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
