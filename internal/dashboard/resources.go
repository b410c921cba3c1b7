package dashboard

import (
	"context"
	"strconv"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

const passwordHint = "Deixe em branco para manter a senha atual"

// ShowPostForm opens the post form populated by p, or cleared when p is nil.
func (d *Dashboard) ShowPostForm(p *entities.Post) {
	if p == nil {
		d.showForm(PostForm, "Nova Postagem", map[string]string{
			"post_date": d.today(),
		})
		return
	}

	d.showForm(PostForm, "Editar Postagem", map[string]string{
		"id":        formatID(p.ID),
		"content":   p.Content,
		"post_date": p.PostDate,
	})
}

// EditPost looks the post up in the full listing and opens the form. Unknown ids are ignored.
func (d *Dashboard) EditPost(ctx context.Context, id uint64) {
	posts, err := d.g.ListPosts(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to look post up")
		d.state.Alert = view.PostLookupError
		return
	}

	for _, p := range posts {
		if p.ID == id {
			d.ShowPostForm(p)
			return
		}
	}
}

// SubmitPost creates the post when p.ID is zero, updates it otherwise.
func (d *Dashboard) SubmitPost(ctx context.Context, p gateway.PostParams) {
	p.Type = entities.OriginalPostType

	values := map[string]string{
		"content":   p.Content,
		"post_date": p.PostDate,
	}
	if p.ID != 0 {
		values["id"] = formatID(p.ID)
	}

	d.submit(ctx, PostForm, values, func() error {
		if p.ID == 0 {
			return d.g.CreatePost(ctx, &p)
		}
		return d.g.UpdatePost(ctx, &p)
	}, (*Dashboard).loadPosts)
}

// DeletePost ...
func (d *Dashboard) DeletePost(ctx context.Context, id uint64, confirmed bool) {
	d.remove(ctx, confirmed, func() error {
		return d.g.DeletePost(ctx, id)
	}, (*Dashboard).loadPosts)
}

// ShowShareForm opens a cleared share form.
func (d *Dashboard) ShowShareForm() {
	d.showForm(ShareForm, "Novo Compartilhamento", map[string]string{
		"post_date": d.today(),
	})
}

// SubmitShare ...
func (d *Dashboard) SubmitShare(ctx context.Context, p gateway.ShareParams) {
	values := map[string]string{
		"original_post_id": formatID(p.OriginalPostID),
		"shares_count":     strconv.Itoa(p.SharesCount),
		"post_date":        p.PostDate,
	}

	d.submit(ctx, ShareForm, values, func() error {
		return d.g.CreateShare(ctx, &p)
	}, (*Dashboard).loadShares)
}

// DeleteShare deletes the share post and reloads shares listing.
func (d *Dashboard) DeleteShare(ctx context.Context, id uint64, confirmed bool) {
	d.remove(ctx, confirmed, func() error {
		return d.g.DeletePost(ctx, id)
	}, (*Dashboard).loadShares)
}

// ShowUserForm opens the user form. Password is required for new users only.
func (d *Dashboard) ShowUserForm(u *entities.User) {
	if u == nil {
		f := d.showForm(UserForm, "Novo Usuário", map[string]string{
			"role": string(entities.EmployeeRole),
		})
		f.PasswordRequired = true
		return
	}

	f := d.showForm(UserForm, "Editar Usuário", map[string]string{
		"id":       formatID(u.ID),
		"username": u.Username,
		"role":     string(u.Role),
	})
	f.PasswordHint = passwordHint
}

// EditUser ...
func (d *Dashboard) EditUser(ctx context.Context, id uint64) {
	users, err := d.g.ListUsers(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to look user up")
		d.state.Alert = view.UserLookupError
		return
	}

	for _, u := range users {
		if u.ID == id {
			d.ShowUserForm(u)
			return
		}
	}
}

// SubmitUser creates the user when p.ID is zero, updates it otherwise.
// Empty password is omitted on update, so the stored credential is kept.
func (d *Dashboard) SubmitUser(ctx context.Context, p gateway.UserParams) {
	values := map[string]string{
		"username": p.Username,
		"role":     string(p.Role),
	}
	if p.ID != 0 {
		values["id"] = formatID(p.ID)
	}

	if p.ID == 0 && p.Password == "" {
		if f, ok := d.state.Forms[UserForm]; ok {
			f.Values = values
		}
		d.state.Alert = view.PasswordRequired
		return
	}

	d.submit(ctx, UserForm, values, func() error {
		if p.ID == 0 {
			return d.g.CreateUser(ctx, &p)
		}
		return d.g.UpdateUser(ctx, &p)
	}, (*Dashboard).loadUsers)
}

// DeleteUser ...
func (d *Dashboard) DeleteUser(ctx context.Context, id uint64, confirmed bool) {
	d.remove(ctx, confirmed, func() error {
		return d.g.DeleteUser(ctx, id)
	}, (*Dashboard).loadUsers)
}

// ShowGoalForm ...
func (d *Dashboard) ShowGoalForm(g *entities.Goal) {
	if g == nil {
		d.showForm(GoalForm, "Nova Meta", map[string]string{
			"user_id":   "",
			"goal_type": string(entities.DailyPeriod),
		})
		return
	}

	d.showForm(GoalForm, "Editar Meta", goalValues(&gateway.GoalParams{
		ID:          g.ID,
		UserID:      g.UserID,
		GoalType:    g.GoalType,
		TargetValue: g.TargetValue,
		StartDate:   g.StartDate,
		EndDate:     g.EndDate,
	}))
}

// EditGoal ...
func (d *Dashboard) EditGoal(ctx context.Context, id uint64) {
	goals, err := d.g.ListGoals(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to look goal up")
		d.state.Alert = view.GoalLookupError
		return
	}

	for _, g := range goals {
		if g.ID == id {
			d.ShowGoalForm(g)
			return
		}
	}
}

// SubmitGoal creates the goal when p.ID is zero, updates it otherwise. Nil UserID is a collective goal.
func (d *Dashboard) SubmitGoal(ctx context.Context, p gateway.GoalParams) {
	d.submit(ctx, GoalForm, goalValues(&p), func() error {
		if p.ID == 0 {
			return d.g.CreateGoal(ctx, &p)
		}
		return d.g.UpdateGoal(ctx, &p)
	}, (*Dashboard).loadGoals)
}

// DeleteGoal ...
func (d *Dashboard) DeleteGoal(ctx context.Context, id uint64, confirmed bool) {
	d.remove(ctx, confirmed, func() error {
		return d.g.DeleteGoal(ctx, id)
	}, (*Dashboard).loadGoals)
}

func goalValues(p *gateway.GoalParams) map[string]string {
	out := map[string]string{
		"user_id":      "",
		"goal_type":    string(p.GoalType),
		"target_value": strconv.Itoa(p.TargetValue),
		"start_date":   p.StartDate,
		"end_date":     p.EndDate,
	}

	if p.ID != 0 {
		out["id"] = formatID(p.ID)
	}

	if p.UserID != nil {
		out["user_id"] = formatID(*p.UserID)
	}

	return out
}

func formatID(id uint64) string {
	return strconv.FormatUint(id, 10)
}
