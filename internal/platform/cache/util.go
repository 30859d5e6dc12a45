package cache

import (
	"time"
)

// TimeUntilNextMarketOpen は次のNSE取引開始時刻（インド標準時 9:15）までの期間を返します。
func TimeUntilNextMarketOpen() time.Duration {
	return timeUntilNextMarketOpen(time.Now())
}

func timeUntilNextMarketOpen(now time.Time) time.Duration {
	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*3600+1800)
	}
	now = now.In(loc)

	// 次の取引開始時刻を計算
	next := time.Date(now.Year(), now.Month(), now.Day(), 9, 15, 0, 0, loc)

	// 今日の取引開始が既に過ぎている場合は翌日を使用
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}

	return next.Sub(now)
}
