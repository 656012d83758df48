// Package http は上流サービス呼び出し用のHTTPクライアントとgin向けの共通ハンドラーを提供します。
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は上流API呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTPS_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: 上流は単一ホストなのでホスト単位の上限を引き上げる
//   - Client.Timeout: リクエスト全体のタイムアウト（0以下なら30秒）
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため使用しないこと
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
