package cache

import (
	"time"
)

var tokyo = loadTokyo()

func loadTokyo() *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		return time.FixedZone("JST", 9*60*60)
	}
	return loc
}

// Location はキャッシュの切り替え時刻の基準となるタイムゾーン（日本時間）です。
func Location() *time.Location { return tokyo }

// TimeUntilNext8AM は次の午前8時（日本時間）までの期間を返します。
func TimeUntilNext8AM() time.Duration {
	return untilNext8AM(time.Now())
}

func untilNext8AM(now time.Time) time.Duration {
	now = now.In(tokyo)

	// 次の午前8時を計算
	next8am := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, tokyo)

	// 今日の午前8時を過ぎていれば翌日の午前8時
	if !now.Before(next8am) {
		next8am = next8am.AddDate(0, 0, 1)
	}

	return next8am.Sub(now)
}
