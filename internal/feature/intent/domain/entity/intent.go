// Package entity はintentフィーチャーのドメイン型を定義します。
package entity

// 分類先として扱うエンドポイントです。
const (
	EndpointStock             = "/stock"
	EndpointSummary           = "/summary"
	EndpointCompanyDataSearch = "/companydatasearch"
)

// Intent は自然言語の依頼をLLMで分類した結果です。
// 分類できなかった場合 Endpoint と Args は nil になります。
type Intent struct {
	Endpoint *string `json:"endpoint"`
	Args     *string `json:"args"`
}

// Classified は Endpoint が決まっているかを返します。
func (i Intent) Classified() bool {
	return i.Endpoint != nil && *i.Endpoint != ""
}

// Known は Endpoint がこのサービスで扱える値かを返します。
func (i Intent) Known() bool {
	if !i.Classified() {
		return false
	}
	switch *i.Endpoint {
	case EndpointStock, EndpointSummary, EndpointCompanyDataSearch:
		return true
	}
	return false
}

// ArgsOr は Args が無ければ def を返します。
func (i Intent) ArgsOr(def string) string {
	if i.Args == nil || *i.Args == "" {
		return def
	}
	return *i.Args
}
