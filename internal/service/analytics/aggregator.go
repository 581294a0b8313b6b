package analytics

import (
	"github.com/shopspring/decimal"
	"github.com/svce-events/attendance-report/internal/domain/analytics"
)

var hundred = decimal.NewFromInt(100)

// Aggregate derives participation and present/absent rates from the summary
// counters. A zero total yields zero rates.
func Aggregate(s analytics.EventSummary) analytics.Stats {
	if s.TotalTeamsCount <= 0 {
		return analytics.Stats{
			PresentPercentage: decimal.Zero,
			AbsentPercentage:  decimal.Zero,
		}
	}

	total := decimal.NewFromInt(int64(s.TotalTeamsCount))
	present := percentOf(s.PresentTeamsCount, total)
	absent := percentOf(s.AbsentTeamsCount, total)

	return analytics.Stats{
		ParticipationRate: present.Round(0).IntPart(),
		PresentPercentage: present.Round(1),
		AbsentPercentage:  absent.Round(1),
	}
}

func percentOf(count int, total decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(count)).Mul(hundred).Div(total)
}
