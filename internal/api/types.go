// Package api はHTTPインターフェースのリクエスト/レスポンス型を定義します。
package api

import "encoding/json"

// ErrorResponse は全エンドポイント共通のエラーボディです。
type ErrorResponse struct {
	Error string `json:"error"`
}

// IntentRequest は POST /llm のリクエストボディです。
type IntentRequest struct {
	NaturalLanguage string `json:"naturalLanguage"`
}

// IntentResponse は POST /llm のレスポンスです。分類できなかった場合は両方 null になります。
type IntentResponse struct {
	Endpoint *string `json:"endpoint"`
	Args     *string `json:"args"`
}

// StockRequest は POST /stock のリクエストボディです。
type StockRequest struct {
	CompanyName string `json:"companyName"`
	Timeframe   string `json:"timeframe,omitempty"`
}

// StockResponse は POST /stock のレスポンスです。Data は日付をキーとする上流のOHLCVマップそのままです。
type StockResponse struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// SummaryResponse は POST /summary のレスポンスです。
type SummaryResponse struct {
	Message string `json:"message"`
	Object  string `json:"object"`
}

// HoldingResponse は保有銘柄1件です。
type HoldingResponse struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
	AvgCost  float64 `json:"avgCost"`
}

// ClientSummaryResponse は顧客一覧の1行です。
type ClientSummaryResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	RiskProfile  string `json:"riskProfile"`
	HoldingCount int    `json:"holdingCount"`
}

// ClientResponse は顧客詳細です。
type ClientResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	RiskProfile string            `json:"riskProfile"`
	Holdings    []HoldingResponse `json:"holdings"`
}

// AssistantMessage はアシスタントのwebsocketでクライアントから受け取るメッセージです。
type AssistantMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}
