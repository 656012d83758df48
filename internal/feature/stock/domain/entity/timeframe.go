// Package entity はstockフィーチャーのドメイン型を定義します。
package entity

import (
	"strings"
	"time"
)

// Timeframe はチャートの表示期間です。
type Timeframe string

const (
	Timeframe1D Timeframe = "1D"
	Timeframe1W Timeframe = "1W"
	Timeframe1M Timeframe = "1M"
	Timeframe3M Timeframe = "3M"
	Timeframe1Y Timeframe = "1Y"
	Timeframe5Y Timeframe = "5Y"

	// DefaultTimeframe は未指定・未知の値に使う期間です。
	DefaultTimeframe = Timeframe1M
)

// DateLayout は上流APIが受け付ける日付形式（dd.mm.yyyy）です。
const DateLayout = "02.01.2006"

// Timeframes は有効な期間の一覧です。
var Timeframes = []Timeframe{Timeframe1D, Timeframe1W, Timeframe1M, Timeframe3M, Timeframe1Y, Timeframe5Y}

// ParseTimeframe は文字列を Timeframe に変換します。未知の値は DefaultTimeframe になります。
func ParseTimeframe(s string) Timeframe {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	switch tf {
	case Timeframe1D, Timeframe1W, Timeframe1M, Timeframe3M, Timeframe1Y, Timeframe5Y:
		return tf
	default:
		return DefaultTimeframe
	}
}

// Start は today から期間分さかのぼった開始日を返します。月・年は暦の加算で計算します。
func (t Timeframe) Start(today time.Time) time.Time {
	switch t {
	case Timeframe1D:
		return today.AddDate(0, 0, -1)
	case Timeframe1W:
		return today.AddDate(0, 0, -7)
	case Timeframe3M:
		return today.AddDate(0, -3, 0)
	case Timeframe1Y:
		return today.AddDate(-1, 0, 0)
	case Timeframe5Y:
		return today.AddDate(-5, 0, 0)
	default:
		return today.AddDate(0, -1, 0)
	}
}

// SeriesQuery は上流から時系列を取得するための条件です。
type SeriesQuery struct {
	CompanyName string
	Timeframe   Timeframe
	First       time.Time
	Last        time.Time
}

// NewSeriesQuery は today を終端とする期間の SeriesQuery を組み立てます。
func NewSeriesQuery(companyName string, tf Timeframe, today time.Time) SeriesQuery {
	return SeriesQuery{
		CompanyName: companyName,
		Timeframe:   tf,
		First:       tf.Start(today),
		Last:        today,
	}
}

// FirstString は開始日を dd.mm.yyyy 形式で返します。
func (q SeriesQuery) FirstString() string { return q.First.Format(DateLayout) }

// LastString は終了日を dd.mm.yyyy 形式で返します。
func (q SeriesQuery) LastString() string { return q.Last.Format(DateLayout) }
