package domain

import (
	"time"
)

// StatField names one value on a player's stats summary page.
type StatField string

const (
	FieldRating      StatField = "rating"
	FieldTSideRating StatField = "t_side_rating"
	FieldCTSideRate  StatField = "ct_side_rating"
	FieldRoundSwing  StatField = "round_swing"
	FieldDPR         StatField = "dpr"
	FieldKAST        StatField = "kast"
	FieldMultiKill   StatField = "multi_kill"
	FieldADR         StatField = "adr"
	FieldKPR         StatField = "kpr"
)

// StatFields lists every field of a complete stat record, in report order.
var StatFields = []StatField{
	FieldRating,
	FieldTSideRating,
	FieldCTSideRate,
	FieldRoundSwing,
	FieldDPR,
	FieldKAST,
	FieldMultiKill,
	FieldADR,
	FieldKPR,
}

// StatRecord maps every stat field to its extracted display value.
// A record is either fully populated or was never produced; partial
// records are not exposed by the extraction layer.
type StatRecord map[StatField]string

// PlayerIdentity is the id/slug pair discovered from a profile URL.
// It is not supplied up front unless the caller already knows it.
type PlayerIdentity struct {
	ID   string
	Slug string
}

type Player struct {
	ID          string
	Slug        string
	Name        string
	LastFetchAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// StatSnapshot is one cached extraction of a player's summary stats,
// keyed by the canonical filter query string it was taken under.
type StatSnapshot struct {
	ID          string // nanoid
	PlayerID    string
	FilterQuery string
	Stats       StatRecord
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// MatchReference is a single opaque URL identifying one historical match.
type MatchReference struct {
	PlayerID    string
	FilterQuery string
	Position    int // crawl order, zero-based across pages
	URL         string
	CreatedAt   time.Time
}
