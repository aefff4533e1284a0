// Package report renders extracted stat records for humans.
package report

import (
	"fmt"
	"strings"

	"hltv-tracker/internal/domain"
)

// Render formats a stat record as the plain-text player report.
func Render(name string, stats domain.StatRecord) string {
	var b strings.Builder

	b.WriteString("======== Player Stat Report ========\n")
	if name != "" {
		fmt.Fprintf(&b, "Player: %s\n", name)
	}
	fmt.Fprintf(&b, "Rating: %s   T Side Rating: %s   CT Side Rating: %s\n",
		stats[domain.FieldRating],
		stats[domain.FieldTSideRating],
		stats[domain.FieldCTSideRate])
	fmt.Fprintf(&b, "Round Swing: %s   DPR (Deaths Per Round): %s   KAST (Kill, Assist, Survived or Traded): %s\n",
		stats[domain.FieldRoundSwing],
		stats[domain.FieldDPR],
		stats[domain.FieldKAST])
	fmt.Fprintf(&b, "Multi-Kill: %s   ADR (Average Damage Per Round): %s   KPR (Kills Per Round): %s\n",
		stats[domain.FieldMultiKill],
		stats[domain.FieldADR],
		stats[domain.FieldKPR])
	b.WriteString("====================================\n")

	return b.String()
}
