// Package entity はsummaryフィーチャーのドメイン型を定義します。
package entity

// ToolName はサマリー応答の object に入るツール名です。
const ToolName = "Summary"

// Summary は1銘柄の当日サマリーです。
type Summary struct {
	Name                  string  `json:"name"`
	Open                  float64 `json:"open"`
	High                  float64 `json:"high"`
	Low                   float64 `json:"low"`
	Close                 float64 `json:"close"`
	Volume                int64   `json:"volume"`
	OutstandingSecurities int64   `json:"outstandingSecurities"`
}

// Envelope は /summary の応答です。
// Object は {tool, data:[<{TICKER: Summary} の文字列JSON>]} をさらに文字列化したものです。
type Envelope struct {
	Message string
	Object  string
}
