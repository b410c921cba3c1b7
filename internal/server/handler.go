package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/gorilla/csrf"

	"github.com/ugsbrasil/sharetrack/internal/dashboard"
	"github.com/ugsbrasil/sharetrack/internal/entities"
	mm "github.com/ugsbrasil/sharetrack/internal/middleware"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

// Error ...
type Error struct {
	Error string `json:"error"`
}

// nolint:gochecknoglobals
var tabLabels = map[dashboard.Tab]string{
	dashboard.PostsTab:        "Minhas Postagens",
	dashboard.SharesTab:       "Compartilhamentos",
	dashboard.GoalsTab:        "Minhas Metas",
	dashboard.ReportsTab:      "Relatórios",
	dashboard.UsersTab:        "Usuários",
	dashboard.AdminGoalsTab:   "Metas",
	dashboard.AdminReportsTab: "Relatórios",
	dashboard.RankingTab:      "Ranking",
}

type tabLink struct {
	Tab    dashboard.Tab
	Label  string
	Active bool
}

type selectField struct {
	Name    string
	Value   string
	Options []view.Option
}

type page struct {
	State dashboard.State
	User  *entities.User
	Tabs  []tabLink
	Alert string

	PostForm  *dashboard.Form
	ShareForm *dashboard.Form
	UserForm  *dashboard.Form
	GoalForm  *dashboard.Form

	PeriodSelect selectField
	Periods      []view.Option
	Roles        []view.Option
}

func newPage(d *dashboard.Dashboard) *page {
	st := d.State()

	p := &page{
		State:     st,
		User:      st.User,
		Alert:     d.TakeAlert(),
		PostForm:  st.Forms[dashboard.PostForm],
		ShareForm: st.Forms[dashboard.ShareForm],
		UserForm:  st.Forms[dashboard.UserForm],
		GoalForm:  st.Forms[dashboard.GoalForm],
		Roles: []view.Option{
			{Value: string(entities.EmployeeRole), Label: view.RoleLabel(entities.EmployeeRole)},
			{Value: string(entities.AdminRole), Label: view.RoleLabel(entities.AdminRole)},
		},
	}

	for _, t := range st.Screen.Tabs() {
		p.Tabs = append(p.Tabs, tabLink{Tab: t, Label: tabLabels[t], Active: t == st.Tab})
	}

	for _, v := range []entities.Period{entities.DailyPeriod, entities.WeeklyPeriod, entities.MonthlyPeriod} {
		p.Periods = append(p.Periods, view.Option{Value: string(v), Label: view.PeriodLabel(v)})
	}

	p.PeriodSelect = selectField{
		Name:    "period",
		Value:   string(entities.DailyPeriod),
		Options: p.Periods,
	}

	return p
}

func (s *server) index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mm.GetSessionID(ctx)

	e := s.acquire(ctx, id)
	var buf bytes.Buffer
	err := render(&buf, r, newPage(e.d))
	s.release(ctx, id, e)

	if err != nil {
		writeInternalError(w, r, "failed to render page", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *server) switchTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mm.GetSessionID(ctx)

	e := s.acquire(ctx, id)
	e.d.SwitchTab(ctx, dashboard.Tab(chi.URLParam(r, "tab")))
	s.release(ctx, id, e)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *server) dispatch(w http.ResponseWriter, r *http.Request) {
	s.act(w, r, chi.URLParam(r, "control"))
}

func (s *server) action(control string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.act(w, r, control)
	}
}

// act dispatches the control with submitted form values and redirects back to the dashboard.
func (s *server) act(w http.ResponseWriter, r *http.Request, control string) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}

	ctx := r.Context()
	id := mm.GetSessionID(ctx)

	e := s.acquire(ctx, id)
	anonymous := e.d.State().User == nil
	err := s.actions.Dispatch(ctx, e.d, control, r.PostForm)
	if err == nil && anonymous && e.d.State().User != nil {
		id = s.rotate(w, id, e)
	}
	s.release(ctx, id, e)

	switch {
	case err == nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, dashboard.ErrUnknownAction) && anonymous:
		// stale page of an expired session falls back to the login screen
		http.Redirect(w, r, "/", http.StatusSeeOther)
	case errors.Is(err, dashboard.ErrUnknownAction):
		writeError(w, http.StatusNotFound, "unknown action")
	case errors.Is(err, dashboard.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeInternalError(w, r, "failed to dispatch action", err)
	}
}

func (s *server) getState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mm.GetSessionID(ctx)

	e := s.acquire(ctx, id)
	b, err := json.Marshal(e.d.State())
	s.release(ctx, id, e)

	if err != nil {
		writeInternalError(w, r, "failed to marshal state", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func render(w *bytes.Buffer, r *http.Request, p *page) error {
	t, err := indexTemplate.Clone()
	if err != nil {
		return err
	}

	return t.Funcs(template.FuncMap{
		"csrfField": func() template.HTML { return csrf.TemplateField(r) },
	}).Execute(w, p)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeOK(w, status, Error{Error: message})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, message string, err error) {
	mm.GetLogger(r.Context()).WithError(err).Error(message)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeOK(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("failed to write response")
	}
}
