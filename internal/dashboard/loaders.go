package dashboard

import (
	"context"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

type loader func(d *Dashboard, ctx context.Context)

// tabLoaders is a static tab→loaders table. The reports tabs load reports on demand.
// nolint:gochecknoglobals
var tabLoaders = map[Tab][]loader{
	PostsTab:        {(*Dashboard).loadPosts},
	SharesTab:       {(*Dashboard).loadShares, (*Dashboard).loadShareOptions},
	GoalsTab:        {(*Dashboard).loadGoalCards},
	ReportsTab:      {},
	UsersTab:        {(*Dashboard).loadUsers},
	AdminGoalsTab:   {(*Dashboard).loadGoals, (*Dashboard).loadGoalUserOptions},
	AdminReportsTab: {(*Dashboard).loadReportUserOptions},
	RankingTab:      {(*Dashboard).loadRanking},
}

func (d *Dashboard) loadPosts(ctx context.Context) {
	posts, err := d.g.ListPosts(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load posts")
		d.state.Content.Posts = view.Placeholder(view.PostsLoadError)
		return
	}

	d.state.Content.Posts = view.Posts(posts)
}

func (d *Dashboard) loadShares(ctx context.Context) {
	posts, err := d.g.ListPosts(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load shares")
		d.state.Content.Shares = view.Placeholder(view.SharesLoadError)
		return
	}

	d.state.Content.Shares = view.Shares(posts)
}

func (d *Dashboard) loadShareOptions(ctx context.Context) {
	posts, err := d.g.ListShareablePosts(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load available posts")
		return
	}

	d.state.Content.ShareOptions = view.ShareOptions(posts)
}

func (d *Dashboard) loadGoalCards(ctx context.Context) {
	goals, err := d.g.ListGoals(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load goals")
		d.state.Content.GoalCards = &view.GoalCards{Placeholder: view.GoalsLoadError}
		return
	}

	if len(goals) == 0 {
		d.state.Content.GoalCards = view.GoalCardsFor(nil, nil)
		return
	}

	progress, err := d.goalProgress(ctx, goals)
	if err != nil {
		log.WithError(err).Warn("failed to load goals progress")
		d.state.Content.GoalCards = &view.GoalCards{Placeholder: view.GoalsLoadError}
		return
	}

	d.state.Content.GoalCards = view.GoalCardsFor(goals, progress)
}

func (d *Dashboard) loadUsers(ctx context.Context) {
	users, err := d.g.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load users")
		d.state.Content.Users = view.Placeholder(view.UsersLoadError)
		return
	}

	d.state.Content.Users = view.Users(users)
}

func (d *Dashboard) loadGoals(ctx context.Context) {
	goals, err := d.g.ListGoals(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load goals")
		d.state.Content.Goals = view.Placeholder(view.GoalsLoadError)
		return
	}

	d.state.Content.Goals = view.Goals(goals)
}

func (d *Dashboard) loadGoalUserOptions(ctx context.Context) {
	users, err := d.g.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load users for goals")
		return
	}

	d.state.Content.GoalUserOptions = view.EmployeeOptions(view.CollectiveGoal, users)
}

func (d *Dashboard) loadReportUserOptions(ctx context.Context) {
	users, err := d.g.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Error("failed to load users for reports")
		return
	}

	d.state.Content.ReportUserOptions = view.EmployeeOptions(view.AllUsersOption, users)
}

func (d *Dashboard) loadRanking(ctx context.Context) {
	reports, err := d.g.GetReports(ctx, &gateway.ReportParams{Period: entities.MonthlyPeriod})
	if err != nil {
		log.WithError(err).Warn("failed to load ranking")
		d.state.Content.Ranking = &view.Ranking{Placeholder: view.RankingLoadError}
		return
	}

	d.state.Content.Ranking = view.RankingFor(reports)
}
