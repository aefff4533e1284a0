package scrape

import "hltv-tracker/internal/domain"

// Locators are configuration data, not code: when the site's layout
// changes, these defaults (or the values injected over them) change,
// not the extraction logic.

// StatLocators maps each stat field to the CSS locator that resolves
// its value on the player stats page.
type StatLocators map[domain.StatField]string

func DefaultStatLocators() StatLocators {
	return StatLocators{
		domain.FieldRating:      "div.player-summary-stat-box div.rating .summaryStatBreakdownDataValue",
		domain.FieldTSideRating: "div.player-summary-stat-box div.tRating .summaryStatBreakdownDataValue",
		domain.FieldCTSideRate:  "div.player-summary-stat-box div.ctRating .summaryStatBreakdownDataValue",
		domain.FieldRoundSwing:  "div.summaryStatBreakdown.roundSwing .summaryStatBreakdownDataValue",
		domain.FieldDPR:         "div.summaryStatBreakdown.dpr .summaryStatBreakdownDataValue",
		domain.FieldKAST:        "div.summaryStatBreakdown.kast .summaryStatBreakdownDataValue",
		domain.FieldMultiKill:   "div.summaryStatBreakdown.multiKill .summaryStatBreakdownDataValue",
		domain.FieldADR:         "div.summaryStatBreakdown.adr .summaryStatBreakdownDataValue",
		domain.FieldKPR:         "div.summaryStatBreakdown.kpr .summaryStatBreakdownDataValue",
	}
}

// MatchListLocators describe the paginated match-history page. Row
// carries one %d verb for the 1-based row position.
type MatchListLocators struct {
	Container string
	Row       string
}

func DefaultMatchListLocators() MatchListLocators {
	return MatchListLocators{
		Container: "table.stats-table.no-sort",
		Row:       "table.stats-table.no-sort tbody tr:nth-child(%d) td.time a",
	}
}

// SearchLocators describe the player search results page.
type SearchLocators struct {
	// Container resolves once the results list has rendered.
	Container string
	// PlayerLink is the first player profile link in the results.
	PlayerLink string
}

func DefaultSearchLocators() SearchLocators {
	return SearchLocators{
		Container:  "div.search div.table-container",
		PlayerLink: `div.search a[href^="/player/"]`,
	}
}
