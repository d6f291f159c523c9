package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	types "github.com/yungbote/mysticwriter-backend/internal/domain"
)

var today = time.Date(2026, time.March, 10, 15, 4, 0, 0, time.UTC)

func day(offset int) string {
	return FormatDate(today.AddDate(0, 0, -offset))
}

func rec(offset, words int) *types.DailyActivityRecord {
	return &types.DailyActivityRecord{Date: day(offset), WordsWritten: words}
}

func TestComputeSummaryEmpty(t *testing.T) {
	got := ComputeSummary(nil, today, 0)
	require.Equal(t, Summary{}, got)
}

func TestTotalWordsIgnoresOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 20; trial++ {
		n := rng.Intn(30)
		records := make([]*types.DailyActivityRecord, 0, n)
		want := 0
		for i := 0; i < n; i++ {
			w := rng.Intn(2000)
			want += w
			records = append(records, rec(i*2+1, w))
		}
		rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
		got := ComputeSummary(records, today, 0)
		if got.TotalWords != want {
			t.Fatalf("TotalWords: want=%d got=%d", want, got.TotalWords)
		}
	}
}

func TestWordsToday(t *testing.T) {
	records := []*types.DailyActivityRecord{rec(1, 40), rec(0, 12), rec(2, 3)}
	require.Equal(t, 12, ComputeSummary(records, today, 0).WordsToday)
	require.Equal(t, 0, ComputeSummary([]*types.DailyActivityRecord{rec(1, 40)}, today, 0).WordsToday)
}

func TestStreakLaws(t *testing.T) {
	cases := []struct {
		name    string
		records []*types.DailyActivityRecord
		want    int
	}{
		{name: "three consecutive days", records: []*types.DailyActivityRecord{rec(0, 5), rec(1, 5), rec(2, 5)}, want: 3},
		{name: "gap yesterday", records: []*types.DailyActivityRecord{rec(0, 5), rec(2, 5)}, want: 1},
		{name: "idle today breaks immediately", records: []*types.DailyActivityRecord{rec(0, 0), rec(1, 5), rec(2, 5)}, want: 0},
		{name: "missing today", records: []*types.DailyActivityRecord{rec(1, 5), rec(2, 5)}, want: 0},
		{name: "unordered input", records: []*types.DailyActivityRecord{rec(2, 5), rec(0, 5), rec(1, 5)}, want: 3},
		{name: "zero record mid walk", records: []*types.DailyActivityRecord{rec(0, 5), rec(1, 0), rec(2, 5)}, want: 1},
		{name: "future record ignored", records: []*types.DailyActivityRecord{rec(-1, 5), rec(0, 5)}, want: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Streak(tc.records, today); got != tc.want {
				t.Fatalf("Streak: want=%d got=%d", tc.want, got)
			}
		})
	}
}

func TestHasActivity(t *testing.T) {
	require.True(t, HasActivity(&types.DailyActivityRecord{SegmentsAdded: 1}))
	require.True(t, HasActivity(&types.DailyActivityRecord{CharactersCreated: 1}))
	require.False(t, HasActivity(&types.DailyActivityRecord{StoriesCreated: 4}))
	require.False(t, HasActivity(nil))
}

func TestStreakAcrossMonthBoundary(t *testing.T) {
	first := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	records := []*types.DailyActivityRecord{
		{Date: "2026-03-01", SegmentsAdded: 1},
		{Date: "2026-02-28", WordsWritten: 10},
		{Date: "2026-02-27", CharactersCreated: 1},
	}
	require.Equal(t, 3, Streak(records, first))
}

func TestComputeSummaryIsIdempotentAndClamps(t *testing.T) {
	records := []*types.DailyActivityRecord{rec(0, 10), rec(1, -4)}
	a := ComputeSummary(records, today, -3)
	b := ComputeSummary(records, today, -3)
	require.Equal(t, a, b)
	require.Equal(t, Summary{TotalWords: 10, WordsToday: 10, ActiveCharacters: 0, StreakDays: 1}, a)
}

func TestTodayUsesItsOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 20:00 UTC on the 10th is already the 11th at UTC+9.
	late := time.Date(2026, time.March, 10, 20, 0, 0, 0, time.UTC).In(loc)
	records := []*types.DailyActivityRecord{{Date: "2026-03-11", WordsWritten: 7}}
	got := ComputeSummary(records, late, 0)
	require.Equal(t, 7, got.WordsToday)
	require.Equal(t, 1, got.StreakDays)
}
