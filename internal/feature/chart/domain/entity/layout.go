// Package entity はチャートの描画レイアウトを計算します。
// 座標はすべて左上原点・下向きが正のピクセル座標です。描画処理は持ちません。
package entity

import (
	"errors"
	"fmt"
	"math"

	stock "wealth_backend/internal/feature/stock/domain/entity"
)

// ErrEmptySeries は描画する点が1つも無いことを表します。
var ErrEmptySeries = errors.New("chart: empty series")

const (
	// GridlineCount は横方向のグリッド線の本数です。
	GridlineCount = 5
	// VolumeFraction は出来高バーに割り当てるプロット高さの割合です。
	VolumeFraction = 0.2
	// BarWidthRatio はスロット幅に対する出来高バーの幅の割合です。
	BarWidthRatio = 0.8
	// NarrowPlotWidth 未満のプロット幅では目盛りラベルを1つおきに間引きます。
	NarrowPlotWidth = 400.0

	pricePadLow  = 0.98
	pricePadHigh = 1.02

	minLabelSpacing = 60.0
)

// Margins はプロット領域の外側の余白です。
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins は左に値ラベル、右に現在値ボックス、下に目盛りラベルの余白を取ります。
var DefaultMargins = Margins{Top: 16, Right: 76, Bottom: 28, Left: 64}

type Rect struct {
	X, Y, W, H float64
}

// Bottom は矩形の下端のy座標です。
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Right は矩形の右端のx座標です。
func (r Rect) Right() float64 { return r.X + r.W }

type Vertex struct {
	X, Y float64
}

type Gridline struct {
	Y     float64
	Value float64
	Label string
}

type TickLabel struct {
	X    float64
	Text string
}

type VolumeBar struct {
	Rect
	Volume int64
}

// PriceMarker は最新値の破線と、その右側のラベルボックスです。
type PriceMarker struct {
	Y     float64
	Price float64
	Label string
	Box   Rect
}

// Layout は1枚のチャートを描くのに必要な幾何情報です。
type Layout struct {
	Width, Height int
	Timeframe     stock.Timeframe
	Plot          Rect

	MinValue, MaxValue float64

	// Line は価格の折れ線です。点が2つ未満なら空で、Dot に単一点が入ります。
	Line []Vertex
	// Area は折れ線とプロット下端で囲む多角形です。点が2つ未満なら空です。
	Area []Vertex
	Dot  *Vertex

	Gridlines []Gridline
	Ticks     []TickLabel
	Bars      []VolumeBar
	Marker    PriceMarker
}

// NewLayout は points（日付昇順）を width×height の画像に配置します。
func NewLayout(points []stock.Point, width, height int, tf stock.Timeframe) (Layout, error) {
	return NewLayoutWithMargins(points, width, height, tf, DefaultMargins)
}

// NewLayoutWithMargins は余白を指定して NewLayout と同じ計算をします。
func NewLayoutWithMargins(points []stock.Point, width, height int, tf stock.Timeframe, m Margins) (Layout, error) {
	if len(points) == 0 {
		return Layout{}, ErrEmptySeries
	}
	plot := Rect{
		X: m.Left,
		Y: m.Top,
		W: float64(width) - m.Left - m.Right,
		H: float64(height) - m.Top - m.Bottom,
	}
	if plot.W <= 0 || plot.H <= 0 {
		return Layout{}, fmt.Errorf("chart: %dx%d leaves no room for the plot", width, height)
	}

	l := Layout{Width: width, Height: height, Timeframe: tf, Plot: plot}
	l.MinValue, l.MaxValue = valueRange(points)

	n := len(points)
	slot := plot.W / float64(n)

	vertices := make([]Vertex, n)
	for i, p := range points {
		vertices[i] = Vertex{X: plot.X + slot*(float64(i)+0.5), Y: l.Y(p.Price)}
	}
	if n >= 2 {
		l.Line = vertices
		l.Area = make([]Vertex, 0, n+2)
		l.Area = append(l.Area, vertices...)
		l.Area = append(l.Area,
			Vertex{X: vertices[n-1].X, Y: plot.Bottom()},
			Vertex{X: vertices[0].X, Y: plot.Bottom()},
		)
	} else {
		dot := vertices[0]
		l.Dot = &dot
	}

	for i := 0; i < GridlineCount; i++ {
		v := l.MinValue + (l.MaxValue-l.MinValue)*float64(i)/float64(GridlineCount-1)
		l.Gridlines = append(l.Gridlines, Gridline{Y: l.Y(v), Value: v, Label: fmt.Sprintf("%.2f", v)})
	}

	l.Ticks = tickLabels(points, vertices, plot.W, tf)
	l.Bars = volumeBars(points, vertices, plot, slot)

	last := points[n-1]
	y := l.Y(last.Price)
	const boxH = 18.0
	l.Marker = PriceMarker{
		Y:     y,
		Price: last.Price,
		Label: fmt.Sprintf("%.2f", last.Price),
		Box:   Rect{X: plot.Right() + 4, Y: y - boxH/2, W: m.Right - 8, H: boxH},
	}
	return l, nil
}

// Y は価格をy座標に変換します。値幅が0の場合はプロットの縦中央を返します。
func (l Layout) Y(price float64) float64 {
	span := l.MaxValue - l.MinValue
	if span == 0 {
		return l.Plot.Y + l.Plot.H/2
	}
	return l.Plot.Y + l.Plot.H*(1-(price-l.MinValue)/span)
}

// valueRange は上下2%の余白を付けた値域を返します。
func valueRange(points []stock.Point) (float64, float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}
	// 負の値でも外側に広がるよう絶対値で余白を取る
	return lo - math.Abs(lo)*(1-pricePadLow), hi + math.Abs(hi)*(pricePadHigh-1)
}

func volumeBars(points []stock.Point, vertices []Vertex, plot Rect, slot float64) []VolumeBar {
	var maxVolume int64
	for _, p := range points {
		if p.Volume > maxVolume {
			maxVolume = p.Volume
		}
	}
	if maxVolume == 0 {
		return nil
	}

	maxH := plot.H * VolumeFraction
	w := BarWidthRatio * slot
	bars := make([]VolumeBar, 0, len(points))
	for i, p := range points {
		h := maxH * float64(p.Volume) / float64(maxVolume)
		bars = append(bars, VolumeBar{
			Rect:   Rect{X: vertices[i].X - w/2, Y: plot.Bottom() - h, W: w, H: h},
			Volume: p.Volume,
		})
	}
	return bars
}

// TickFormat は期間ごとの目盛りラベルの書式です。
func TickFormat(tf stock.Timeframe) string {
	switch tf {
	case stock.Timeframe1D:
		return "15:04"
	case stock.Timeframe1W:
		return "Mon"
	case stock.Timeframe1Y:
		return "Jan"
	case stock.Timeframe5Y:
		return "Jan 2006"
	default: // 1M, 3M
		return "2"
	}
}

// tickLabels は隣り合う同じラベルをまとめ、幅に収まる数に間引きます。
// プロット幅が NarrowPlotWidth 未満ならさらに1つおきに落とします。
func tickLabels(points []stock.Point, vertices []Vertex, plotW float64, tf stock.Timeframe) []TickLabel {
	layout := TickFormat(tf)

	var all []TickLabel
	for i, p := range points {
		text := p.Date.Format(layout)
		if len(all) > 0 && all[len(all)-1].Text == text {
			continue
		}
		all = append(all, TickLabel{X: vertices[i].X, Text: text})
	}

	maxLabels := int(plotW / minLabelSpacing)
	if maxLabels < 1 {
		maxLabels = 1
	}
	step := (len(all) + maxLabels - 1) / maxLabels
	if step < 1 {
		step = 1
	}
	if plotW < NarrowPlotWidth {
		step *= 2
	}

	out := make([]TickLabel, 0, len(all)/step+1)
	for i := 0; i < len(all); i += step {
		out = append(out, all[i])
	}
	return out
}
