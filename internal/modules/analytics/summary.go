// Package analytics turns a user's per-day activity ledger into the summary
// numbers shown on the dashboard. Everything here is pure; callers inject today.
package analytics

import (
	"time"

	types "github.com/yungbote/mysticwriter-backend/internal/domain"
)

const DateLayout = "2006-01-02"

type Summary struct {
	TotalWords       int `json:"total_words"`
	WordsToday       int `json:"words_today"`
	ActiveCharacters int `json:"active_characters"`
	StreakDays       int `json:"streak_days"`
}

// ComputeSummary folds records into a Summary. Records may be unordered.
// today is read as a calendar date in its own location.
func ComputeSummary(records []*types.DailyActivityRecord, today time.Time, activeCharacters int) Summary {
	todayKey := FormatDate(today)
	out := Summary{ActiveCharacters: nonNegative(activeCharacters)}
	for _, r := range records {
		if r == nil {
			continue
		}
		words := nonNegative(r.WordsWritten)
		out.TotalWords += words
		if r.Date == todayKey {
			out.WordsToday = words
		}
	}
	out.StreakDays = Streak(records, today)
	return out
}

// HasActivity reports whether a day counts toward a streak. Stories alone do not.
func HasActivity(r *types.DailyActivityRecord) bool {
	if r == nil {
		return false
	}
	return r.WordsWritten > 0 || r.SegmentsAdded > 0 || r.CharactersCreated > 0
}

// Streak counts consecutive active days walking back from today. A missing
// day and a day with an all-zero record both end the walk; so does an idle today.
func Streak(records []*types.DailyActivityRecord, today time.Time) int {
	if len(records) == 0 {
		return 0
	}
	byDate := make(map[string]*types.DailyActivityRecord, len(records))
	for _, r := range records {
		if r != nil {
			byDate[r.Date] = r
		}
	}
	streak := 0
	day := StartOfDay(today)
	for {
		r, ok := byDate[FormatDate(day)]
		if !ok || !HasActivity(r) {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
