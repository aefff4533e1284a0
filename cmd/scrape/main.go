// Command scrape runs a single scrape against the target site and
// prints the text report, without touching the cache database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"hltv-tracker/internal/config"
	"hltv-tracker/internal/logger"
	"hltv-tracker/internal/report"
	"hltv-tracker/internal/scrape"
)

func main() {
	var (
		name      = flag.String("player", "", "player name to search for (required)")
		quickTime = flag.String("quick-time", "", `relative time window ("All", "Last Month", "Last 3 Months", "Last 6 Months", "Last 12 Months")`)
		startDate = flag.String("start-date", "", "absolute range start, YYYY-MM-DD")
		endDate   = flag.String("end-date", "", "absolute range end, YYYY-MM-DD")
		matchType = flag.String("match-type", "", "match type filter")
		csVersion = flag.String("cs-version", "", "game version filter")
		maps      = flag.String("maps", "", "comma-separated map names")
		ranking   = flag.String("ranking", "", "ranking bucket filter")
		matches   = flag.Bool("matches", false, "also crawl and print the match history")
	)
	flag.Parse()

	if *name == "" {
		flag.Usage()
		os.Exit(2)
	}

	log := logger.New()

	cfg, err := config.Load(log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	opts := scrape.FilterOptions{
		QuickTime: scrape.QuickTime(*quickTime),
		MatchType: *matchType,
		CSVersion: *csVersion,
		Ranking:   *ranking,
	}
	if *maps != "" {
		opts.Maps = strings.Split(*maps, ",")
	}
	for _, date := range []struct {
		raw string
		dst *time.Time
	}{
		{*startDate, &opts.StartDate},
		{*endDate, &opts.EndDate},
	} {
		if date.raw == "" {
			continue
		}
		t, err := time.Parse("2006-01-02", date.raw)
		if err != nil {
			log.Fatal().Str("date", date.raw).Msg("dates must be YYYY-MM-DD")
		}
		*date.dst = t
	}
	filter := scrape.NewFilter(opts, time.Now)

	client := scrape.NewClient(cfg, log)
	ctx := context.Background()

	ident, stats, err := client.FetchPlayerStats(ctx, *name, nil, filter)
	if err != nil {
		// not found and exhausted both end the run empty-handed; the
		// log lines above carry the distinction
		log.Warn().Err(err).Str("player", *name).Msg("no stats scraped")
		os.Exit(1)
	}

	fmt.Print(report.Render(*name, stats))

	if *matches {
		_, refs, err := client.FetchMatchReferences(ctx, *name, &ident, filter)
		if err != nil {
			log.Warn().Err(err).Str("player", *name).Msg("no match history scraped")
			os.Exit(1)
		}
		fmt.Printf("Matches (%d):\n", len(refs))
		for _, ref := range refs {
			fmt.Println(ref.URL)
		}
	}
}
