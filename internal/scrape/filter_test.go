package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func TestFormatAllDefault(t *testing.T) {
	f := NewFilter(FilterOptions{}, fixedNow)
	assert.Equal(t, "", f.Format())
}

func TestFormatQuickAll(t *testing.T) {
	f := NewFilter(FilterOptions{QuickTime: QuickAll}, fixedNow)
	assert.Equal(t, "", f.Format(), "the unbounded window emits no time range")
}

func TestFormatRankingOnly(t *testing.T) {
	f := NewFilter(FilterOptions{Ranking: "Top5"}, fixedNow)
	assert.Equal(t, "rankingFilter=Top5", f.Format())
}

func TestFormatQuickLastMonth(t *testing.T) {
	f := NewFilter(FilterOptions{QuickTime: QuickLast1M}, fixedNow)
	assert.Equal(t, "startDate=2025-05-16&endDate=2025-06-15", f.Format())
}

func TestFormatQuickWindows(t *testing.T) {
	tests := []struct {
		quick QuickTime
		start string
	}{
		{QuickLast1M, "2025-05-16"},
		{QuickLast3M, "2025-03-17"},
		{QuickLast6M, "2024-12-17"},
		{QuickLast12M, "2024-06-15"},
	}
	for _, tt := range tests {
		t.Run(string(tt.quick), func(t *testing.T) {
			f := NewFilter(FilterOptions{QuickTime: tt.quick}, fixedNow)
			assert.Equal(t, "startDate="+tt.start+"&endDate=2025-06-15", f.Format())
		})
	}
}

func TestQuickTimeOverridesAbsoluteRange(t *testing.T) {
	f := NewFilter(FilterOptions{
		QuickTime: QuickLast1M,
		StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC),
	}, fixedNow)
	assert.Equal(t, "startDate=2025-05-16&endDate=2025-06-15", f.Format())
}

func TestFormatAbsoluteRange(t *testing.T) {
	f := NewFilter(FilterOptions{
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}, fixedNow)
	assert.Equal(t, "startDate=2025-01-01&endDate=2025-03-31", f.Format())
}

func TestFormatFixedFieldOrder(t *testing.T) {
	// construction order of the criteria must not matter
	f := NewFilter(FilterOptions{
		Ranking:   "Top20",
		Maps:      []string{"de_dust2", "de_mirage"},
		CSVersion: "CS2",
		MatchType: "Lan",
		QuickTime: QuickLast1M,
	}, fixedNow)

	assert.Equal(t,
		"startDate=2025-05-16&endDate=2025-06-15&matchType=Lan&csVersion=CS2&maps=de_dust2&de_mirage&rankingFilter=Top20",
		f.Format())
}

func TestFormatMapsJoin(t *testing.T) {
	// map values share a single maps= assignment, joined with "&" and
	// not URL-escaped; downstream consumers depend on this exact shape
	f := NewFilter(FilterOptions{Maps: []string{"de_inferno"}}, fixedNow)
	assert.Equal(t, "maps=de_inferno", f.Format())

	f = NewFilter(FilterOptions{Maps: []string{"de_inferno", "de_nuke", "de_train"}}, fixedNow)
	assert.Equal(t, "maps=de_inferno&de_nuke&de_train", f.Format())
}

func TestFilterStableAcrossCalls(t *testing.T) {
	f := NewFilter(FilterOptions{QuickTime: QuickLast3M, MatchType: "Online"}, time.Now)
	assert.Equal(t, f.Format(), f.Format(), "the range is resolved at construction, not at format time")
}
