package view

import (
	"fmt"
	"strconv"

	"github.com/ugsbrasil/sharetrack/internal/entities"
)

const shareOptionLength = 50

// Posts renders posts listing with edit and delete actions.
func Posts(posts []*entities.Post) *List {
	if len(posts) == 0 {
		return Placeholder(PostsNotFound)
	}

	rows := make([]Row, len(posts))
	for i, p := range posts {
		rows[i] = Row{
			ID:   p.ID,
			Meta: fmt.Sprintf("%s - %s%s", FormatDate(p.PostDate), PostTypeLabel(p.Type), byAuthor(p.Username)),
			Body: p.Content,
			Actions: []Action{
				{Control: "post.edit", ID: p.ID, Label: "Editar"},
				{Control: "post.delete", ID: p.ID, Label: "Excluir", Confirm: ConfirmDeletePost, Danger: true},
			},
		}

		if p.IsShare() {
			rows[i].Extra = sharesText(p.SharesCount)
		}
	}

	return &List{Rows: rows}
}

// Shares renders shares among posts. Shares are deletable only.
func Shares(posts []*entities.Post) *List {
	rows := make([]Row, 0, len(posts))
	for _, p := range posts {
		if !p.IsShare() {
			continue
		}

		rows = append(rows, Row{
			ID:    p.ID,
			Meta:  fmt.Sprintf("%s - %s%s", FormatDate(p.PostDate), PostTypeLabel(p.Type), byAuthor(p.Username)),
			Body:  p.Content,
			Extra: sharesText(p.SharesCount),
			Actions: []Action{
				{Control: "share.delete", ID: p.ID, Label: "Excluir", Confirm: ConfirmDeletePost, Danger: true},
			},
		})
	}

	if len(rows) == 0 {
		return Placeholder(SharesNotFound)
	}

	return &List{Rows: rows}
}

// Users ...
func Users(users []*entities.User) *List {
	if len(users) == 0 {
		return Placeholder(UsersNotFound)
	}

	rows := make([]Row, len(users))
	for i, u := range users {
		rows[i] = Row{
			ID:    u.ID,
			Title: u.Username,
			Meta:  RoleLabel(u.Role),
			Actions: []Action{
				{Control: "user.edit", ID: u.ID, Label: "Editar"},
				{Control: "user.delete", ID: u.ID, Label: "Excluir", Confirm: ConfirmDeleteUser, Danger: true},
			},
		}
	}

	return &List{Rows: rows}
}

// Goals renders goals listing of the admin screen.
func Goals(goals []*entities.Goal) *List {
	if len(goals) == 0 {
		return Placeholder(GoalsNotFound)
	}

	rows := make([]Row, len(goals))
	for i, g := range goals {
		rows[i] = Row{
			ID:    g.ID,
			Title: "Meta " + GoalTypeLabel(g.GoalType),
			Meta: fmt.Sprintf("%s - Objetivo: %d - %s a %s",
				goalOwner(g), g.TargetValue, FormatDate(g.StartDate), FormatDate(g.EndDate)),
			Actions: []Action{
				{Control: "goal.edit", ID: g.ID, Label: "Editar"},
				{Control: "goal.delete", ID: g.ID, Label: "Excluir", Confirm: ConfirmDeleteGoal, Danger: true},
			},
		}
	}

	return &List{Rows: rows}
}

// ShareOptions renders posts available for sharing as dropdown options.
func ShareOptions(posts []*entities.Post) []Option {
	out := make([]Option, 0, len(posts)+1)
	out = append(out, Option{Label: SelectPostOption})

	for _, p := range posts {
		out = append(out, Option{
			Value: strconv.FormatUint(p.ID, 10),
			Label: fmt.Sprintf("%s: %s...", p.Username, truncate(p.Content, shareOptionLength)),
		})
	}

	return out
}

// EmployeeOptions renders employees as dropdown options led by an empty option labeled first.
func EmployeeOptions(first string, users []*entities.User) []Option {
	out := make([]Option, 0, len(users)+1)
	out = append(out, Option{Label: first})

	for _, u := range users {
		if u.Role != entities.EmployeeRole {
			continue
		}

		out = append(out, Option{
			Value: strconv.FormatUint(u.ID, 10),
			Label: u.Username,
		})
	}

	return out
}

func goalOwner(g *entities.Goal) string {
	switch {
	case g.IsCollective():
		return CollectiveGoal
	case g.Username == "":
		return fmt.Sprintf("Usuário: #%d", *g.UserID)
	default:
		return "Usuário: " + g.Username
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n])
}
