package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugsbrasil/sharetrack/internal/entities"
)

func uint64Ptr(v uint64) *uint64 {
	return &v
}

func TestPosts(t *testing.T) {
	assert.Equal(t, &List{Placeholder: PostsNotFound}, Posts(nil))

	l := Posts([]*entities.Post{
		{ID: 1, Content: "a", PostDate: "2024-01-01", Type: entities.OriginalPostType, Username: "ana"},
		{ID: 2, Content: "b", PostDate: "2024-01-02", Type: entities.SharePostType, SharesCount: 3},
	})

	require.Len(t, l.Rows, 2)
	assert.Empty(t, l.Placeholder)

	assert.Equal(t, "01/01/2024 - Postagem por ana", l.Rows[0].Meta)
	assert.Equal(t, "a", l.Rows[0].Body)
	assert.Empty(t, l.Rows[0].Extra)
	assert.Equal(t, []Action{
		{Control: "post.edit", ID: 1, Label: "Editar"},
		{Control: "post.delete", ID: 1, Label: "Excluir", Confirm: ConfirmDeletePost, Danger: true},
	}, l.Rows[0].Actions)

	assert.Equal(t, "02/01/2024 - Compartilhamento", l.Rows[1].Meta)
	assert.Equal(t, "Compartilhamentos: 3", l.Rows[1].Extra)
}

func TestShares(t *testing.T) {
	posts := []*entities.Post{
		{ID: 1, Content: "a", PostDate: "2024-01-01", Type: entities.OriginalPostType},
	}
	assert.Equal(t, &List{Placeholder: SharesNotFound}, Shares(posts))

	posts = append(posts, &entities.Post{ID: 2, Content: "b", PostDate: "2024-01-02", Type: entities.SharePostType, SharesCount: 4})

	l := Shares(posts)
	require.Len(t, l.Rows, 1)
	assert.EqualValues(t, 2, l.Rows[0].ID)
	assert.Equal(t, "Compartilhamentos: 4", l.Rows[0].Extra)
	require.Len(t, l.Rows[0].Actions, 1)
	assert.Equal(t, "share.delete", l.Rows[0].Actions[0].Control)
}

func TestUsers(t *testing.T) {
	assert.Equal(t, &List{Placeholder: UsersNotFound}, Users([]*entities.User{}))

	l := Users([]*entities.User{
		{ID: 1, Username: "root", Role: entities.AdminRole},
		{ID: 2, Username: "ana", Role: entities.EmployeeRole},
	})
	require.Len(t, l.Rows, 2)
	assert.Equal(t, "Administrador", l.Rows[0].Meta)
	assert.Equal(t, "Funcionário", l.Rows[1].Meta)
	assert.Equal(t, ConfirmDeleteUser, l.Rows[1].Actions[1].Confirm)
}

func TestGoals(t *testing.T) {
	l := Goals([]*entities.Goal{
		{ID: 1, GoalType: entities.DailyPeriod, TargetValue: 10, StartDate: "2024-01-01", EndDate: "2024-01-31"},
		{ID: 2, UserID: uint64Ptr(3), Username: "ana", GoalType: entities.WeeklyPeriod, TargetValue: 5, StartDate: "2024-01-01", EndDate: "2024-01-07"},
	})
	require.Len(t, l.Rows, 2)

	assert.Equal(t, "Meta Diária", l.Rows[0].Title)
	assert.Equal(t, "Meta Coletiva - Objetivo: 10 - 01/01/2024 a 31/01/2024", l.Rows[0].Meta)
	assert.Equal(t, "Meta Semanal", l.Rows[1].Title)
	assert.Equal(t, "Usuário: ana - Objetivo: 5 - 01/01/2024 a 07/01/2024", l.Rows[1].Meta)
}

func TestShareOptions(t *testing.T) {
	long := strings.Repeat("á", 60)

	o := ShareOptions([]*entities.Post{
		{ID: 4, Username: "ana", Content: "short"},
		{ID: 5, Username: "bia", Content: long},
	})

	assert.Equal(t, []Option{
		{Label: SelectPostOption},
		{Value: "4", Label: "ana: short..."},
		{Value: "5", Label: "bia: " + strings.Repeat("á", 50) + "..."},
	}, o)
}

func TestEmployeeOptions(t *testing.T) {
	o := EmployeeOptions(CollectiveGoal, []*entities.User{
		{ID: 1, Username: "root", Role: entities.AdminRole},
		{ID: 2, Username: "ana", Role: entities.EmployeeRole},
	})

	assert.Equal(t, []Option{
		{Label: CollectiveGoal},
		{Value: "2", Label: "ana"},
	}, o)
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2024", FormatDate("2024-03-05"))
	assert.Equal(t, "05/03/2024", FormatDate("2024-03-05 10:11:12"))
	assert.Equal(t, "yesterday", FormatDate("yesterday"))
}

func TestRankingFor(t *testing.T) {
	reports := []*entities.Report{
		{Username: "A", TotalPosts: 5},
		{Username: "B", TotalPosts: 9},
	}

	r := RankingFor(reports)
	require.Len(t, r.Entries, 2)

	assert.Equal(t, 1, r.Entries[0].Position)
	assert.Equal(t, "1º", r.Entries[0].Label)
	assert.Equal(t, "B", r.Entries[0].Username)
	assert.Equal(t, 2, r.Entries[1].Position)
	assert.Equal(t, "A", r.Entries[1].Username)

	// input order is kept
	assert.Equal(t, "A", reports[0].Username)

	assert.Equal(t, &Ranking{Placeholder: RankingNotFound}, RankingFor(nil))
}

func TestPercentage(t *testing.T) {
	tt := []struct {
		name     string
		progress int
		target   int
		text     string
	}{
		{name: "partial", progress: 4, target: 10, text: "40.0%"},
		{name: "exact", progress: 10, target: 10, text: "100.0%"},
		{name: "capped", progress: 15, target: 10, text: "100.0%"},
		{name: "fraction", progress: 1, target: 3, text: "33.3%"},
		{name: "zero_target", progress: 1, target: 0, text: "0.0%"},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.text, FormatPercentage(Percentage(tc.progress, tc.target)))
		})
	}
}

func TestGoalCardsFor(t *testing.T) {
	assert.Equal(t, &GoalCards{Placeholder: GoalsNotFound}, GoalCardsFor(nil, nil))

	c := GoalCardsFor([]*entities.Goal{
		{ID: 1, GoalType: entities.MonthlyPeriod, TargetValue: 10, StartDate: "2024-01-01", EndDate: "2024-01-31"},
	}, func(g *entities.Goal) int {
		return 4
	})

	require.Len(t, c.Cards, 1)
	assert.Equal(t, GoalCard{
		Title:        "Meta Mensal",
		Target:       "Objetivo: 10 postagens",
		Period:       "Período: 01/01/2024 - 31/01/2024",
		Owner:        CollectiveGoal,
		Progress:     4,
		TargetValue:  10,
		Percentage:   40,
		ProgressText: "4 / 10 (40.0%)",
	}, c.Cards[0])
}

func TestReportFor(t *testing.T) {
	reports := []*entities.Report{
		{Username: "ana", TotalPosts: 3, PostsCount: 2, SharesCount: 1},
		{Username: "bia", TotalPosts: 1, PostsCount: 1},
	}

	all := ReportFor(entities.WeeklyPeriod, reports, false)
	assert.Equal(t, "Relatório Semanal", all.Title)
	assert.False(t, all.Single)
	assert.Len(t, all.Blocks, 2)

	one := ReportFor(entities.DailyPeriod, reports[:1], true)
	assert.Equal(t, &Report{
		Title:  "Relatório Diário",
		Single: true,
		Blocks: []StatBlock{{Username: "ana", TotalPosts: 3, PostsCount: 2, SharesCount: 1}},
	}, one)

	assert.Equal(t, &Report{Placeholder: ReportNotFound}, ReportFor(entities.MonthlyPeriod, nil, false))
}

func TestPersonalReport(t *testing.T) {
	assert.Equal(t, &Report{
		Title:  "Relatório Mensal",
		Single: true,
		Blocks: []StatBlock{{}},
	}, PersonalReport(entities.MonthlyPeriod, nil))
}

func TestAlertMessage(t *testing.T) {
	assert.Equal(t, "Erro: X", AlertMessage("X"))
}
