package dashboard

import (
	"context"
	"fmt"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

// ProgressMode is a source of goals' progress.
type ProgressMode string

const (
	// DailyProgress uses total posts of the first daily report row for every goal.
	DailyProgress ProgressMode = "daily"
	// PeriodProgress uses the report of goal's own period: owner's row for personal goals,
	// sum of all rows for collective ones.
	PeriodProgress ProgressMode = "period"
)

// GenerateReport generates report of the period, optionally filtered by user.
// Employees always get their own report.
func (d *Dashboard) GenerateReport(ctx context.Context, period entities.Period, userID *uint64) error {
	if !period.IsValid() {
		return fmt.Errorf("%w: invalid period", ErrInvalidRequest)
	}

	if d.state.User == nil {
		return nil
	}

	personal := !d.state.User.IsAdmin()
	if personal {
		userID = nil
		if d.state.User.ID != 0 {
			id := d.state.User.ID
			userID = &id
		}
	}

	reports, err := d.g.GetReports(ctx, &gateway.ReportParams{Period: period, UserID: userID})

	var out *view.Report
	switch {
	case err != nil:
		log.WithError(err).Warn("failed to generate report")
		out = view.ReportPlaceholder(view.ReportLoadError)
	case personal:
		out = view.PersonalReport(period, reports)
	default:
		out = view.ReportFor(period, reports, userID != nil)
	}

	if personal {
		d.state.Content.Report = out
	} else {
		d.state.Content.AdminReport = out
	}

	return nil
}

// goalProgress fetches reports needed for goals' progress and returns progress function.
func (d *Dashboard) goalProgress(ctx context.Context, goals []*entities.Goal) (func(g *entities.Goal) int, error) {
	if d.progress == DailyProgress {
		reports, err := d.g.GetReports(ctx, &gateway.ReportParams{Period: entities.DailyPeriod})
		if err != nil {
			return nil, fmt.Errorf("failed to get daily reports: %w", err)
		}

		var total int
		if len(reports) > 0 {
			total = reports[0].TotalPosts
		}

		return func(*entities.Goal) int {
			return total
		}, nil
	}

	byPeriod := make(map[entities.Period][]*entities.Report)
	for _, g := range goals {
		if _, ok := byPeriod[g.GoalType]; ok || !g.GoalType.IsValid() {
			continue
		}

		reports, err := d.g.GetReports(ctx, &gateway.ReportParams{Period: g.GoalType})
		if err != nil {
			return nil, fmt.Errorf("failed to get %s reports: %w", g.GoalType, err)
		}

		byPeriod[g.GoalType] = reports
	}

	return func(g *entities.Goal) int {
		return periodProgress(g, byPeriod[g.GoalType])
	}, nil
}

func periodProgress(g *entities.Goal, reports []*entities.Report) int {
	var total int

	for _, r := range reports {
		if g.IsCollective() {
			total += r.TotalPosts
			continue
		}

		if r.Username == g.Username {
			return r.TotalPosts
		}
	}

	return total
}
