package scrape

import (
	"strings"
	"time"
)

// QuickTime is the relative time-window shorthand offered by the
// stats page. It is expanded into an absolute range the moment a
// Filter is constructed.
type QuickTime string

const (
	// QuickNone means no shorthand was chosen; an explicit absolute
	// range, if any, is used as given.
	QuickNone    QuickTime = ""
	QuickAll     QuickTime = "All"
	QuickLast1M  QuickTime = "Last Month"
	QuickLast3M  QuickTime = "Last 3 Months"
	QuickLast6M  QuickTime = "Last 6 Months"
	QuickLast12M QuickTime = "Last 12 Months"
)

const wireDateLayout = "2006-01-02"

var quickWindows = map[QuickTime]time.Duration{
	QuickLast1M:  30 * 24 * time.Hour,
	QuickLast3M:  90 * 24 * time.Hour,
	QuickLast6M:  180 * 24 * time.Hour,
	QuickLast12M: 365 * 24 * time.Hour,
}

// FilterOptions are the raw search criteria a caller supplies.
type FilterOptions struct {
	QuickTime QuickTime
	StartDate time.Time
	EndDate   time.Time
	MatchType string
	CSVersion string
	Maps      []string
	Ranking   string
}

// Filter is an immutable set of search criteria. Construct it once
// per query with NewFilter; the relative shorthand has already been
// resolved against the clock by then.
type Filter struct {
	startDate time.Time
	endDate   time.Time
	matchType string
	csVersion string
	maps      []string
	ranking   string
}

// NewFilter resolves opts against now. A quick-time shorthand
// deterministically overrides any absolute range: QuickAll selects
// the unbounded window (formatted as no window at all), the others
// subtract their day count from now.
func NewFilter(opts FilterOptions, now func() time.Time) Filter {
	f := Filter{
		startDate: opts.StartDate,
		endDate:   opts.EndDate,
		matchType: opts.MatchType,
		csVersion: opts.CSVersion,
		maps:      append([]string(nil), opts.Maps...),
		ranking:   opts.Ranking,
	}

	switch opts.QuickTime {
	case QuickNone:
	case QuickAll:
		f.startDate = time.Time{}
		f.endDate = time.Time{}
	default:
		if window, ok := quickWindows[opts.QuickTime]; ok {
			end := now()
			f.startDate = end.Add(-window)
			f.endDate = end
		}
	}

	return f
}

// Format renders the filter as the site's query string. Only
// non-default criteria are emitted, always in the same order (time
// range, match type, version, maps, ranking) because cache keys and
// fixtures depend on a stable string. An all-default filter formats
// to the empty string.
//
// Map values are joined with "&" inside the single maps= assignment
// and are deliberately not URL-escaped; this matches the wire format
// the site expects.
func (f Filter) Format() string {
	var parts []string

	if !f.startDate.IsZero() && !f.endDate.IsZero() {
		parts = append(parts,
			"startDate="+f.startDate.Format(wireDateLayout),
			"endDate="+f.endDate.Format(wireDateLayout),
		)
	}
	if f.matchType != "" {
		parts = append(parts, "matchType="+f.matchType)
	}
	if f.csVersion != "" {
		parts = append(parts, "csVersion="+f.csVersion)
	}
	if len(f.maps) > 0 {
		parts = append(parts, "maps="+strings.Join(f.maps, "&"))
	}
	if f.ranking != "" {
		parts = append(parts, "rankingFilter="+f.ranking)
	}

	return strings.Join(parts, "&")
}
