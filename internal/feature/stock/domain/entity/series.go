package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"wealth_backend/internal/shared/apperr"
)

// Series は上流から取得した1銘柄分のOHLCVデータです。
// Data は日付をキー、OHLCVレコードを値とするJSONオブジェクトを加工せずに保持します。
type Series struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

// Point はチャート描画用に正規化した1点です。Price は終値です。
type Point struct {
	Date   time.Time
	Price  float64
	Volume int64
}

var dateKeyLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	DateLayout,
}

// Points は Data を Point の列に変換し、日付の昇順に並べて返します。
// 上流のキー順は保証されないため、必ずソートします。
func (s Series) Points() ([]Point, error) {
	var records map[string]map[string]any
	if err := json.Unmarshal(s.Data, &records); err != nil {
		return nil, fmt.Errorf("%w: decode ohlcv records: %v", apperr.ErrParse, err)
	}

	points := make([]Point, 0, len(records))
	// 書式違いで同じ日付を指すキーはどちらを採るか決められないため拒否する
	seen := make(map[int64]string, len(records))
	for key, rec := range records {
		date, err := parseDateKey(key)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[date.UnixNano()]; dup {
			return nil, fmt.Errorf("%w: date keys %q and %q refer to the same date", apperr.ErrParse, prev, key)
		}
		seen[date.UnixNano()] = key
		price, ok := lookupNumber(rec, "close", "price", "4. close")
		if !ok {
			return nil, fmt.Errorf("%w: record %q has no close price", apperr.ErrParse, key)
		}
		volume, _ := lookupNumber(rec, "volume", "5. volume")
		points = append(points, Point{Date: date, Price: price, Volume: int64(volume)})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func parseDateKey(key string) (time.Time, error) {
	key = strings.TrimSpace(key)
	for _, layout := range dateKeyLayouts {
		if t, err := time.Parse(layout, key); err == nil {
			return t, nil
		}
	}
	// UNIX時刻（秒またはミリ秒）
	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: unrecognised date key %q", apperr.ErrParse, key)
}

// lookupNumber はフィールド名の大文字小文字を区別せずに数値（または数値文字列）を探します。
func lookupNumber(rec map[string]any, names ...string) (float64, bool) {
	for _, name := range names {
		for k, v := range rec {
			if !strings.EqualFold(k, name) {
				continue
			}
			switch n := v.(type) {
			case float64:
				return n, true
			case string:
				f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
				if err == nil {
					return f, true
				}
			}
		}
	}
	return 0, false
}
