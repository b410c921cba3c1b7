package view

import (
	"fmt"
	"math"
	"sort"

	"github.com/ugsbrasil/sharetrack/internal/entities"
)

// StatBlock is per-user statistics of a report.
type StatBlock struct {
	Username    string `json:"username,omitempty"`
	TotalPosts  int    `json:"total_posts"`
	PostsCount  int    `json:"posts_count"`
	SharesCount int    `json:"shares_count"`
}

// Report is a rendered report.
// Single is true when the report is rendered as one stat block, otherwise Blocks hold one block per user.
type Report struct {
	Title       string      `json:"title,omitempty"`
	Single      bool        `json:"single"`
	Blocks      []StatBlock `json:"blocks,omitempty"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// RankingEntry ...
type RankingEntry struct {
	Position int    `json:"position"`
	Label    string `json:"label"`
	StatBlock
}

// Ranking ...
type Ranking struct {
	Entries     []RankingEntry `json:"entries,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
}

// GoalCard is a goal with its progress.
type GoalCard struct {
	Title        string  `json:"title"`
	Target       string  `json:"target"`
	Period       string  `json:"period"`
	Owner        string  `json:"owner"`
	Progress     int     `json:"progress"`
	TargetValue  int     `json:"target_value"`
	Percentage   float64 `json:"percentage"`
	ProgressText string  `json:"progress_text"`
}

// GoalCards ...
type GoalCards struct {
	Cards       []GoalCard `json:"cards,omitempty"`
	Placeholder string     `json:"placeholder,omitempty"`
}

// ReportPlaceholder returns a report with a single placeholder message.
func ReportPlaceholder(msg string) *Report {
	return &Report{Placeholder: msg}
}

// ReportFor renders reports. Filtered report is rendered as the first row's stat block.
func ReportFor(period entities.Period, reports []*entities.Report, filtered bool) *Report {
	if len(reports) == 0 {
		return ReportPlaceholder(ReportNotFound)
	}

	out := &Report{
		Title:  reportTitle(period),
		Single: filtered,
	}

	if filtered {
		out.Blocks = []StatBlock{toStatBlock(reports[0])}
		return out
	}

	out.Blocks = make([]StatBlock, len(reports))
	for i, r := range reports {
		out.Blocks[i] = toStatBlock(r)
	}

	return out
}

// PersonalReport renders the report of a single user. Missing row is rendered as zeros.
func PersonalReport(period entities.Period, reports []*entities.Report) *Report {
	b := StatBlock{}
	if len(reports) > 0 {
		b = toStatBlock(reports[0])
	}

	return &Report{
		Title:  reportTitle(period),
		Single: true,
		Blocks: []StatBlock{b},
	}
}

// RankingFor sorts reports descending by total posts and renders 1-indexed positions.
// The input slice is not modified.
func RankingFor(reports []*entities.Report) *Ranking {
	if len(reports) == 0 {
		return &Ranking{Placeholder: RankingNotFound}
	}

	sorted := make([]*entities.Report, len(reports))
	copy(sorted, reports)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPosts > sorted[j].TotalPosts
	})

	out := &Ranking{Entries: make([]RankingEntry, len(sorted))}
	for i, r := range sorted {
		out.Entries[i] = RankingEntry{
			Position:  i + 1,
			Label:     fmt.Sprintf("%dº", i+1),
			StatBlock: toStatBlock(r),
		}
	}

	return out
}

// GoalCardsFor renders goals with progress returned by the progress function.
func GoalCardsFor(goals []*entities.Goal, progress func(g *entities.Goal) int) *GoalCards {
	if len(goals) == 0 {
		return &GoalCards{Placeholder: GoalsNotFound}
	}

	out := &GoalCards{Cards: make([]GoalCard, len(goals))}
	for i, g := range goals {
		p := progress(g)
		pct := Percentage(p, g.TargetValue)

		out.Cards[i] = GoalCard{
			Title:        "Meta " + GoalTypeLabel(g.GoalType),
			Target:       fmt.Sprintf("Objetivo: %d postagens", g.TargetValue),
			Period:       fmt.Sprintf("Período: %s - %s", FormatDate(g.StartDate), FormatDate(g.EndDate)),
			Owner:        goalOwner(g),
			Progress:     p,
			TargetValue:  g.TargetValue,
			Percentage:   pct,
			ProgressText: fmt.Sprintf("%d / %d (%s)", p, g.TargetValue, FormatPercentage(pct)),
		}
	}

	return out
}

// Percentage returns min(progress / target * 100, 100). Non-positive target gives 0.
func Percentage(progress, target int) float64 {
	if target <= 0 {
		return 0
	}

	return math.Min(float64(progress)/float64(target)*100, 100)
}

// FormatPercentage formats percentage with one decimal place, e.g. 40.0%.
func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func reportTitle(p entities.Period) string {
	return "Relatório " + PeriodLabel(p)
}

func toStatBlock(r *entities.Report) StatBlock {
	return StatBlock{
		Username:    r.Username,
		TotalPosts:  r.TotalPosts,
		PostsCount:  r.PostsCount,
		SharesCount: r.SharesCount,
	}
}
