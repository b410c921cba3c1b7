package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
)

// ErrUnknownAction is returned when the control is not bound on the visible screen.
var ErrUnknownAction = errors.New("unknown action")

// ErrInvalidRequest is returned when submitted values can not be parsed.
var ErrInvalidRequest = errors.New("invalid request")

// Handler handles a control. p holds submitted form values.
type Handler func(ctx context.Context, d *Dashboard, p url.Values) error

// ActionKey ...
type ActionKey struct {
	Screen  Screen
	Control string
}

// Actions is a dispatch table of (screen, control) to handler.
type Actions map[ActionKey]Handler

// NewActions builds dispatch table of every screen.
func NewActions() Actions {
	a := Actions{}

	a.bind(LoginScreen, map[string]Handler{
		"login": login,
	})

	common := map[string]Handler{
		"logout":          logout,
		"tab":             switchTab,
		"report.generate": generateReport,
	}
	a.bind(EmployeeScreen, common)
	a.bind(AdminScreen, common)

	a.bind(EmployeeScreen, map[string]Handler{
		"post.new":     newForm(func(d *Dashboard) { d.ShowPostForm(nil) }),
		"post.edit":    withID(func(ctx context.Context, d *Dashboard, id uint64) { d.EditPost(ctx, id) }),
		"post.cancel":  hideForm(PostForm),
		"post.submit":  submitPost,
		"post.delete":  withConfirmedID((*Dashboard).DeletePost),
		"share.new":    newForm((*Dashboard).ShowShareForm),
		"share.cancel": hideForm(ShareForm),
		"share.submit": submitShare,
		"share.delete": withConfirmedID((*Dashboard).DeleteShare),
	})

	a.bind(AdminScreen, map[string]Handler{
		"user.new":    newForm(func(d *Dashboard) { d.ShowUserForm(nil) }),
		"user.edit":   withID(func(ctx context.Context, d *Dashboard, id uint64) { d.EditUser(ctx, id) }),
		"user.cancel": hideForm(UserForm),
		"user.submit": submitUser,
		"user.delete": withConfirmedID((*Dashboard).DeleteUser),
		"goal.new":    newForm(func(d *Dashboard) { d.ShowGoalForm(nil) }),
		"goal.edit":   withID(func(ctx context.Context, d *Dashboard, id uint64) { d.EditGoal(ctx, id) }),
		"goal.cancel": hideForm(GoalForm),
		"goal.submit": submitGoal,
		"goal.delete": withConfirmedID((*Dashboard).DeleteGoal),
	})

	return a
}

// Dispatch runs handler of the control bound on the visible screen.
func (a Actions) Dispatch(ctx context.Context, d *Dashboard, control string, p url.Values) error {
	h, ok := a[ActionKey{Screen: d.Screen(), Control: control}]
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrUnknownAction, control, d.Screen())
	}

	return h(ctx, d, p)
}

func (a Actions) bind(s Screen, handlers map[string]Handler) {
	for control, h := range handlers {
		a[ActionKey{Screen: s, Control: control}] = h
	}
}

func login(ctx context.Context, d *Dashboard, p url.Values) error {
	d.Login(ctx, strings.TrimSpace(p.Get("username")), p.Get("password"))
	return nil
}

func logout(_ context.Context, d *Dashboard, _ url.Values) error {
	d.Logout()
	return nil
}

func switchTab(ctx context.Context, d *Dashboard, p url.Values) error {
	d.SwitchTab(ctx, Tab(p.Get("tab")))
	return nil
}

func generateReport(ctx context.Context, d *Dashboard, p url.Values) error {
	userID, err := optionalID(p, "user_id")
	if err != nil {
		return err
	}

	return d.GenerateReport(ctx, entities.Period(p.Get("period")), userID)
}

func newForm(show func(d *Dashboard)) Handler {
	return func(_ context.Context, d *Dashboard, _ url.Values) error {
		show(d)
		return nil
	}
}

func hideForm(id FormID) Handler {
	return func(_ context.Context, d *Dashboard, _ url.Values) error {
		d.HideForm(id)
		return nil
	}
}

func withID(f func(ctx context.Context, d *Dashboard, id uint64)) Handler {
	return func(ctx context.Context, d *Dashboard, p url.Values) error {
		id, err := requiredID(p, "id")
		if err != nil {
			return err
		}

		f(ctx, d, id)
		return nil
	}
}

// withConfirmedID passes the interactive confirmation submitted as confirm=true.
func withConfirmedID(f func(d *Dashboard, ctx context.Context, id uint64, confirmed bool)) Handler {
	return func(ctx context.Context, d *Dashboard, p url.Values) error {
		id, err := requiredID(p, "id")
		if err != nil {
			return err
		}

		confirmed, _ := strconv.ParseBool(p.Get("confirm"))
		f(d, ctx, id, confirmed)
		return nil
	}
}

func submitPost(ctx context.Context, d *Dashboard, p url.Values) error {
	id, err := optionalID(p, "id")
	if err != nil {
		return err
	}

	d.SubmitPost(ctx, gateway.PostParams{
		ID:       valueOf(id),
		Content:  p.Get("content"),
		PostDate: p.Get("post_date"),
	})
	return nil
}

func submitShare(ctx context.Context, d *Dashboard, p url.Values) error {
	original, err := requiredID(p, "original_post_id")
	if err != nil {
		return err
	}

	count, err := requiredInt(p, "shares_count")
	if err != nil {
		return err
	}

	d.SubmitShare(ctx, gateway.ShareParams{
		OriginalPostID: original,
		SharesCount:    count,
		PostDate:       p.Get("post_date"),
	})
	return nil
}

func submitUser(ctx context.Context, d *Dashboard, p url.Values) error {
	id, err := optionalID(p, "id")
	if err != nil {
		return err
	}

	role := entities.Role(p.Get("role"))
	if role != entities.AdminRole && role != entities.EmployeeRole {
		return fmt.Errorf("%w: invalid role", ErrInvalidRequest)
	}

	d.SubmitUser(ctx, gateway.UserParams{
		ID:       valueOf(id),
		Username: strings.TrimSpace(p.Get("username")),
		Role:     role,
		Password: p.Get("password"),
	})
	return nil
}

func submitGoal(ctx context.Context, d *Dashboard, p url.Values) error {
	id, err := optionalID(p, "id")
	if err != nil {
		return err
	}

	// empty selection is a collective goal
	userID, err := optionalID(p, "user_id")
	if err != nil {
		return err
	}

	goalType := entities.Period(p.Get("goal_type"))
	if !goalType.IsValid() {
		return fmt.Errorf("%w: invalid goal_type", ErrInvalidRequest)
	}

	target, err := requiredInt(p, "target_value")
	if err != nil {
		return err
	}

	d.SubmitGoal(ctx, gateway.GoalParams{
		ID:          valueOf(id),
		UserID:      userID,
		GoalType:    goalType,
		TargetValue: target,
		StartDate:   p.Get("start_date"),
		EndDate:     p.Get("end_date"),
	})
	return nil
}

func requiredID(p url.Values, key string) (uint64, error) {
	id, err := optionalID(p, key)
	if err != nil {
		return 0, err
	}

	if id == nil {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidRequest, key)
	}

	return *id, nil
}

func optionalID(p url.Values, key string) (*uint64, error) {
	s := strings.TrimSpace(p.Get(key))
	if s == "" {
		return nil, nil
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%w: failed to parse %s", ErrInvalidRequest, key)
	}

	return &v, nil
}

func requiredInt(p url.Values, key string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(p.Get(key)))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to parse %s", ErrInvalidRequest, key)
	}

	return v, nil
}

func valueOf(id *uint64) uint64 {
	if id == nil {
		return 0
	}

	return *id
}
