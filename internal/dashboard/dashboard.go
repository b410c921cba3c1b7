// Package dashboard contains the view router of the tracker dashboard.
//
// A Dashboard holds the state of a single browser session: the authenticated user, the visible
// screen and tab, the rendered tab content and the forms. Every user action runs to completion
// against the tracker API and re-renders the affected content.
package dashboard

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/view"
)

var log = logrus.WithField("package", "dashboard")

// Screen is a top-level screen.
type Screen string

const (
	// LoginScreen ...
	LoginScreen Screen = "loginScreen"
	// EmployeeScreen ...
	EmployeeScreen Screen = "employeeScreen"
	// AdminScreen ...
	AdminScreen Screen = "adminScreen"
)

// Tab is a tab of a screen.
type Tab string

const (
	// PostsTab ...
	PostsTab Tab = "posts"
	// SharesTab ...
	SharesTab Tab = "shares"
	// GoalsTab ...
	GoalsTab Tab = "goals"
	// ReportsTab ...
	ReportsTab Tab = "reports"
	// UsersTab ...
	UsersTab Tab = "users"
	// AdminGoalsTab ...
	AdminGoalsTab Tab = "adminGoals"
	// AdminReportsTab ...
	AdminReportsTab Tab = "adminReports"
	// RankingTab ...
	RankingTab Tab = "ranking"
)

// nolint:gochecknoglobals
var (
	screenTabs = map[Screen][]Tab{
		EmployeeScreen: {PostsTab, SharesTab, GoalsTab, ReportsTab, RankingTab},
		AdminScreen:    {UsersTab, AdminGoalsTab, AdminReportsTab, RankingTab},
	}

	defaultTabs = map[Screen]Tab{
		EmployeeScreen: PostsTab,
		AdminScreen:    UsersTab,
	}
)

// Tabs returns tabs of the screen in display order.
func (s Screen) Tabs() []Tab {
	return screenTabs[s]
}

// HasTab ...
func (s Screen) HasTab(t Tab) bool {
	for _, v := range screenTabs[s] {
		if v == t {
			return true
		}
	}

	return false
}

// FormID ...
type FormID string

const (
	// PostForm ...
	PostForm FormID = "post"
	// ShareForm ...
	ShareForm FormID = "share"
	// UserForm ...
	UserForm FormID = "user"
	// GoalForm ...
	GoalForm FormID = "goal"
)

// Form is a create/update form. Values never contain a password.
type Form struct {
	Visible          bool              `json:"visible"`
	Title            string            `json:"title,omitempty"`
	Values           map[string]string `json:"values,omitempty"`
	PasswordRequired bool              `json:"password_required,omitempty"`
	PasswordHint     string            `json:"password_hint,omitempty"`
}

// Content is rendered tab content. Nil fields are not loaded yet.
type Content struct {
	Posts       *view.List      `json:"posts,omitempty"`
	Shares      *view.List      `json:"shares,omitempty"`
	GoalCards   *view.GoalCards `json:"goal_cards,omitempty"`
	Report      *view.Report    `json:"report,omitempty"`
	Users       *view.List      `json:"users,omitempty"`
	Goals       *view.List      `json:"goals,omitempty"`
	AdminReport *view.Report    `json:"admin_report,omitempty"`
	Ranking     *view.Ranking   `json:"ranking,omitempty"`

	ShareOptions      []view.Option `json:"share_options,omitempty"`
	GoalUserOptions   []view.Option `json:"goal_user_options,omitempty"`
	ReportUserOptions []view.Option `json:"report_user_options,omitempty"`
}

// State is a state of a dashboard.
type State struct {
	User       *entities.User   `json:"user,omitempty"`
	Screen     Screen           `json:"screen"`
	Tab        Tab              `json:"tab,omitempty"`
	LoginError string           `json:"login_error,omitempty"`
	Alert      string           `json:"alert,omitempty"`
	Content    Content          `json:"content"`
	Forms      map[FormID]*Form `json:"forms"`
}

// Dashboard is a view router of a single session.
// Dashboard is not safe for concurrent use: callers serialise actions of a session.
type Dashboard struct {
	g        gateway.Gateway
	progress ProgressMode
	now      func() time.Time

	state State
}

// Option ...
type Option func(d *Dashboard)

// WithProgressMode sets the source of goal progress.
func WithProgressMode(m ProgressMode) Option {
	return func(d *Dashboard) {
		d.progress = m
	}
}

// WithClock sets clock used for form defaults.
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) {
		d.now = now
	}
}

// New returns a dashboard showing the login screen.
func New(g gateway.Gateway, opts ...Option) *Dashboard {
	d := &Dashboard{
		g:        g,
		progress: PeriodProgress,
		now:      time.Now,
	}

	for _, o := range opts {
		o(d)
	}

	d.reset()

	return d
}

// State returns current state.
func (d *Dashboard) State() State {
	return d.state
}

// Screen returns visible screen.
func (d *Dashboard) Screen() Screen {
	return d.state.Screen
}

// TakeAlert returns pending alert and clears it. Alerts are shown once.
func (d *Dashboard) TakeAlert() string {
	a := d.state.Alert
	d.state.Alert = ""
	return a
}

// ShowScreen makes screen visible. Screens which are not allowed for the session are replaced:
// unauthenticated sessions always see the login screen, authenticated ones see their role's screen.
func (d *Dashboard) ShowScreen(s Screen) {
	if allowed := screenFor(d.state.User); s != allowed {
		s = allowed
	}

	if d.state.Screen != s {
		d.state.Tab = ""
	}
	d.state.Screen = s
}

// SwitchTab makes tab visible and loads its data. Tabs of other screens are ignored.
func (d *Dashboard) SwitchTab(ctx context.Context, t Tab) {
	if !d.state.Screen.HasTab(t) {
		return
	}

	d.state.Tab = t
	d.LoadTabData(ctx, t)
}

// LoadTabData runs loaders of the tab. Unknown tabs and unauthenticated sessions are no-op.
func (d *Dashboard) LoadTabData(ctx context.Context, t Tab) {
	if d.state.User == nil {
		return
	}

	for _, load := range tabLoaders[t] {
		load(d, ctx)
	}
}

// Login authenticates user and routes to the screen of the user's role.
// Failed login keeps the login screen and shows the error inline.
func (d *Dashboard) Login(ctx context.Context, username, password string) {
	u, err := d.g.Login(ctx, username, password)
	if err != nil {
		if msg, ok := gateway.Message(err); ok {
			if msg == "" {
				msg = view.LoginFailed
			}
			d.state.LoginError = msg
			return
		}

		log.WithError(err).WithField("username", username).Warn("failed to login")
		d.state.LoginError = view.ConnectionError
		return
	}

	d.state.User = u
	d.state.LoginError = ""

	d.ShowScreen(screenFor(u))
	d.SwitchTab(ctx, defaultTabs[d.state.Screen])
}

// Restore brings back an authenticated session, e.g. after the process restart.
func (d *Dashboard) Restore(ctx context.Context, u *entities.User, t Tab) {
	d.reset()
	d.state.User = u

	d.ShowScreen(screenFor(u))
	if !d.state.Screen.HasTab(t) {
		t = defaultTabs[d.state.Screen]
	}
	d.SwitchTab(ctx, t)
}

// Logout clears identity, rendered content and forms and shows the login screen.
func (d *Dashboard) Logout() {
	d.reset()
}

func (d *Dashboard) reset() {
	d.state = State{
		Screen: LoginScreen,
		Forms: map[FormID]*Form{
			PostForm:  {},
			ShareForm: {},
			UserForm:  {},
			GoalForm:  {},
		},
	}
}

// alertFailure shows mutation failure: server message for application errors, generic one otherwise.
func (d *Dashboard) alertFailure(err error) {
	if msg, ok := gateway.Message(err); ok {
		d.state.Alert = view.AlertMessage(msg)
		return
	}

	log.WithError(err).Warn("request failed")
	d.state.Alert = view.ConnectionError
}

// HideForm ...
func (d *Dashboard) HideForm(id FormID) {
	if f, ok := d.state.Forms[id]; ok {
		f.Visible = false
	}
}

func (d *Dashboard) showForm(id FormID, title string, values map[string]string) *Form {
	f := &Form{
		Visible: true,
		Title:   title,
		Values:  values,
	}
	d.state.Forms[id] = f

	return f
}

// submit runs the mutation of a form. On success the form is hidden and the listing reloaded,
// on failure the form keeps the submitted values and stays open.
func (d *Dashboard) submit(ctx context.Context, id FormID, values map[string]string, mutate func() error, reload loader) {
	if f, ok := d.state.Forms[id]; ok {
		f.Values = values
	}

	if err := mutate(); err != nil {
		d.alertFailure(err)
		return
	}

	d.HideForm(id)
	reload(d, ctx)
}

// remove runs confirmed deletion and reloads the listing.
func (d *Dashboard) remove(ctx context.Context, confirmed bool, del func() error, reload loader) {
	if !confirmed {
		return
	}

	if err := del(); err != nil {
		d.alertFailure(err)
		return
	}

	reload(d, ctx)
}

func (d *Dashboard) today() string {
	return d.now().Format("2006-01-02")
}

func screenFor(u *entities.User) Screen {
	switch {
	case u == nil:
		return LoginScreen
	case u.IsAdmin():
		return AdminScreen
	default:
		return EmployeeScreen
	}
}
