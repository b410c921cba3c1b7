// Package view contains pure render functions mapping entities to view-models.
// View-models carry final, localized texts; templates only lay them out.
package view

import (
	"fmt"
	"time"

	"github.com/ugsbrasil/sharetrack/internal/entities"
)

// Messages shown to users.
const (
	ConnectionError = "Erro de conexão com o servidor"
	LoginFailed     = "Erro ao fazer login"

	PostsNotFound     = "Nenhuma postagem encontrada."
	PostsLoadError    = "Erro ao carregar postagens."
	SharesNotFound    = "Nenhum compartilhamento encontrado."
	SharesLoadError   = "Erro ao carregar compartilhamentos."
	UsersNotFound     = "Nenhum usuário encontrado."
	UsersLoadError    = "Erro ao carregar usuários."
	GoalsNotFound     = "Nenhuma meta encontrada."
	GoalsLoadError    = "Erro ao carregar metas."
	ReportNotFound    = "Nenhum dado encontrado para o período selecionado."
	ReportLoadError   = "Erro ao gerar relatório."
	RankingNotFound   = "Nenhum dado encontrado."
	RankingLoadError  = "Erro ao carregar ranking."
	PostLookupError   = "Erro ao carregar dados da postagem"
	UserLookupError   = "Erro ao carregar dados do usuário"
	GoalLookupError   = "Erro ao carregar dados da meta"
	PasswordRequired  = "Erro: A senha é obrigatória para novos usuários"
	ConfirmDeletePost = "Tem certeza que deseja excluir esta postagem?"
	ConfirmDeleteUser = "Tem certeza que deseja excluir este usuário? Todas as postagens e metas relacionadas também serão excluídas."
	ConfirmDeleteGoal = "Tem certeza que deseja excluir esta meta?"
	CollectiveGoal    = "Meta Coletiva"
	SelectPostOption  = "Selecione uma postagem"
	AllUsersOption    = "Todos os usuários"
)

// AlertMessage formats an application error returned by the tracker API.
func AlertMessage(msg string) string {
	return "Erro: " + msg
}

// Action is a button bound to a control of the active screen.
type Action struct {
	Control string `json:"control"`
	ID      uint64 `json:"id"`
	Label   string `json:"label"`
	Confirm string `json:"confirm,omitempty"`
	Danger  bool   `json:"danger,omitempty"`
}

// Row is a summary line of a listed record.
type Row struct {
	ID      uint64   `json:"id"`
	Title   string   `json:"title,omitempty"`
	Meta    string   `json:"meta"`
	Body    string   `json:"body,omitempty"`
	Extra   string   `json:"extra,omitempty"`
	Actions []Action `json:"actions"`
}

// List is a rendered listing. Exactly one of Rows or Placeholder is set.
type List struct {
	Rows        []Row  `json:"rows,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Option is an entry of a dropdown.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Placeholder returns a listing with a single placeholder message.
func Placeholder(msg string) *List {
	return &List{Placeholder: msg}
}

// FormatDate formats API date (YYYY-MM-DD, optionally with time) as dd/mm/yyyy.
// Unparseable values are returned as is.
func FormatDate(s string) string {
	for _, layout := range []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return s
}

// PeriodLabel is used in report titles.
func PeriodLabel(p entities.Period) string {
	switch p {
	case entities.DailyPeriod:
		return "Diário"
	case entities.WeeklyPeriod:
		return "Semanal"
	default:
		return "Mensal"
	}
}

// GoalTypeLabel is used in goal titles.
func GoalTypeLabel(p entities.Period) string {
	switch p {
	case entities.DailyPeriod:
		return "Diária"
	case entities.WeeklyPeriod:
		return "Semanal"
	default:
		return "Mensal"
	}
}

// RoleLabel ...
func RoleLabel(r entities.Role) string {
	if r == entities.AdminRole {
		return "Administrador"
	}

	return "Funcionário"
}

// PostTypeLabel ...
func PostTypeLabel(t entities.PostType) string {
	if t == entities.OriginalPostType {
		return "Postagem"
	}

	return "Compartilhamento"
}

func sharesText(n int) string {
	return fmt.Sprintf("Compartilhamentos: %d", n)
}

func byAuthor(username string) string {
	if username == "" {
		return ""
	}

	return " por " + username
}
