package reports

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Period string

const (
	PeriodWeek  Period = "semana" // last 7 days
	PeriodMonth Period = "mes"    // last calendar month
)

func (p Period) Since(now time.Time) (time.Time, error) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), nil
	case PeriodMonth, "":
		return now.AddDate(0, -1, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period %q", p)
	}
}

type Rank string

const (
	RankTop    Rank = "top"    // most consumed first
	RankBottom Rank = "bottom" // least consumed first
)

type Filter struct {
	Period     Period
	Rank       Rank
	CategoryID *uuid.UUID
	MaterialID *uuid.UUID
	Limit      int // 0 means the default of 5
}

const defaultLimit = 5

func (f Filter) limit() int {
	if f.Limit <= 0 {
		return defaultLimit
	}
	return f.Limit
}

// ConsumptionRow is the aggregated outflow of one material over the period
// (absolute sum of its negative movements).
type ConsumptionRow struct {
	MaterialID   uuid.UUID
	MaterialName string
	UsageUnit    string
	Total        float64
}
