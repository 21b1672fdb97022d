package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndrandal/hedge-simulator/internal/engine"
)

// RenderCSV renders run history as a CSV string. The hedged column is
// empty for unhedged runs.
func RenderCSV(history []engine.HistoryRecord) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,marketPrice,portfolioValue,hedgedPortfolio,unhedgedPortfolio\n")

	// Rows
	for _, rec := range history {
		hedged := ""
		if rec.HedgedPortfolio != nil {
			hedged = strconv.FormatFloat(*rec.HedgedPortfolio, 'f', 6, 64)
		}
		sb.WriteString(fmt.Sprintf("%d,%.6f,%.6f,%s,%.6f\n",
			rec.Day,
			rec.MarketPrice,
			rec.PortfolioValue,
			hedged,
			rec.UnhedgedPortfolio,
		))
	}

	return sb.String()
}
