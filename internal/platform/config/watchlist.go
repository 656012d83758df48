package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Watchlist はキャッシュウォーマーが定期取得する銘柄と時間枠の一覧です。
type Watchlist struct {
	Schedule   string   `yaml:"schedule"`
	Timeframes []string `yaml:"timeframes"`
	Companies  []string `yaml:"companies"`
}

// LoadWatchlist はYAMLファイルからウォッチリストを読み込み、既定値を補完します。
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read watchlist: %w", err)
	}

	wl := &Watchlist{}
	if err := yaml.Unmarshal(data, wl); err != nil {
		return nil, fmt.Errorf("parse watchlist: %w", err)
	}

	// 毎朝8時（キャッシュTTLの切り替わり直後）
	if wl.Schedule == "" {
		wl.Schedule = "0 5 8 * * *"
	}
	if len(wl.Timeframes) == 0 {
		wl.Timeframes = []string{"1D", "1W", "1M", "3M", "1Y", "5Y"}
	}
	if len(wl.Companies) == 0 {
		return nil, fmt.Errorf("watchlist %s has no companies", path)
	}
	return wl, nil
}
