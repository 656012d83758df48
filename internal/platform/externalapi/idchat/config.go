// Package idchat は上流サービス idchat-api のクライアントを提供します。
package idchat

import "time"

// Config は idchat-api クライアントの設定です。
type Config struct {
	BaseURL      string        // 例: "https://idchat-api.example.azurecontainerapps.io"
	MaxAttempts  int           // ネットワークエラーと5xxに対する最大試行回数
	RetryBackoff time.Duration // 試行ごとに線形に増える待機時間の単位
}

func (c Config) attempts() int {
	if c.MaxAttempts < 1 {
		return 1
	}
	return c.MaxAttempts
}
