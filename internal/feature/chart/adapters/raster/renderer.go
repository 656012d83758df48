// Package raster は fogleman/gg でチャートのレイアウトをPNGに描画します。
package raster

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"

	"wealth_backend/internal/feature/chart/domain/entity"
	"wealth_backend/internal/feature/chart/usecase"
)

// Theme は描画色です。RGBA各成分は0〜1です。
type Theme struct {
	Background [4]float64
	Grid       [4]float64
	Text       [4]float64
	Line       [4]float64
	Area       [4]float64
	Volume     [4]float64
	Marker     [4]float64
	MarkerText [4]float64
}

// DefaultTheme はダッシュボードのダークテーマに合わせた配色です。
var DefaultTheme = Theme{
	Background: [4]float64{0.07, 0.09, 0.13, 1},
	Grid:       [4]float64{1, 1, 1, 0.08},
	Text:       [4]float64{0.72, 0.76, 0.82, 1},
	Line:       [4]float64{0.22, 0.55, 0.98, 1},
	Area:       [4]float64{0.22, 0.55, 0.98, 0.18},
	Volume:     [4]float64{0.55, 0.6, 0.7, 0.35},
	Marker:     [4]float64{0.22, 0.55, 0.98, 1},
	MarkerText: [4]float64{1, 1, 1, 1},
}

// Renderer はレイアウトをPNGに変換します。
type Renderer struct {
	theme Theme
}

var _ usecase.Renderer = (*Renderer)(nil)

// NewRenderer は Renderer を生成します。
func NewRenderer(theme Theme) *Renderer {
	return &Renderer{theme: theme}
}

func set(dc *gg.Context, c [4]float64) {
	dc.SetRGBA(c[0], c[1], c[2], c[3])
}

// Render はグリッド、出来高、面、折れ線、目盛り、現在値の順に描画します。
func (r *Renderer) Render(l entity.Layout) ([]byte, error) {
	dc := gg.NewContext(l.Width, l.Height)
	set(dc, r.theme.Background)
	dc.Clear()

	// グリッド線と値ラベル
	dc.SetLineWidth(1)
	for _, g := range l.Gridlines {
		set(dc, r.theme.Grid)
		dc.DrawLine(l.Plot.X, g.Y, l.Plot.Right(), g.Y)
		dc.Stroke()
		set(dc, r.theme.Text)
		dc.DrawStringAnchored(g.Label, l.Plot.X-6, g.Y, 1, 0.5)
	}

	// 出来高バー
	set(dc, r.theme.Volume)
	for _, b := range l.Bars {
		if b.H <= 0 {
			continue
		}
		dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	}
	dc.Fill()

	// 面と折れ線
	if len(l.Area) > 0 {
		dc.MoveTo(l.Area[0].X, l.Area[0].Y)
		for _, v := range l.Area[1:] {
			dc.LineTo(v.X, v.Y)
		}
		dc.ClosePath()
		set(dc, r.theme.Area)
		dc.Fill()
	}
	if len(l.Line) > 0 {
		dc.MoveTo(l.Line[0].X, l.Line[0].Y)
		for _, v := range l.Line[1:] {
			dc.LineTo(v.X, v.Y)
		}
		set(dc, r.theme.Line)
		dc.SetLineWidth(2)
		dc.Stroke()
	}
	if l.Dot != nil {
		set(dc, r.theme.Line)
		dc.DrawCircle(l.Dot.X, l.Dot.Y, 3)
		dc.Fill()
	}

	// x軸の目盛りラベル
	set(dc, r.theme.Text)
	for _, t := range l.Ticks {
		dc.DrawStringAnchored(t.Text, t.X, l.Plot.Bottom()+14, 0.5, 0.5)
	}

	// 現在値の破線とラベルボックス
	set(dc, r.theme.Marker)
	dc.SetLineWidth(1)
	dc.SetDash(4, 3)
	dc.DrawLine(l.Plot.X, l.Marker.Y, l.Plot.Right(), l.Marker.Y)
	dc.Stroke()
	dc.SetDash()
	box := l.Marker.Box
	dc.DrawRoundedRectangle(box.X, box.Y, box.W, box.H, 3)
	dc.Fill()
	set(dc, r.theme.MarkerText)
	dc.DrawStringAnchored(l.Marker.Label, box.X+box.W/2, box.Y+box.H/2, 0.5, 0.5)

	return encode(dc)
}

// RenderMessage はチャートの代わりに中央へメッセージだけを描いた画像を返します。
func (r *Renderer) RenderMessage(width, height int, msg string) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("chart: invalid size %dx%d", width, height)
	}
	dc := gg.NewContext(width, height)
	set(dc, r.theme.Background)
	dc.Clear()
	set(dc, r.theme.Text)
	dc.DrawStringAnchored(msg, float64(width)/2, float64(height)/2, 0.5, 0.5)
	return encode(dc)
}

func encode(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
