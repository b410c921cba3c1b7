package dashboard

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
	"github.com/ugsbrasil/sharetrack/internal/gateway/mock"
)

func TestActions_Dispatch_Unknown(t *testing.T) {
	tt := []struct {
		name    string
		user    *entities.User
		control string
	}{
		{name: "login_screen", control: "post.new"},
		{name: "employee_admin_control", user: employee, control: "user.new"},
		{name: "admin_employee_control", user: admin, control: "post.submit"},
		{name: "authenticated_login", user: admin, control: "login"},
		{name: "unknown", user: employee, control: "whatever"},
	}

	a := NewActions()

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			d := New(mock.NewMockGateway(ctrl))
			if tc.user != nil {
				d = authenticated(mock.NewMockGateway(ctrl), tc.user, "")
			}

			err := a.Dispatch(ctx, d, tc.control, url.Values{})
			assert.True(t, errors.Is(err, ErrUnknownAction))
		})
	}
}

func TestActions_Dispatch(t *testing.T) {
	tt := []struct {
		name    string
		user    *entities.User
		control string
		values  url.Values
		expect  func(g *mock.MockGateway)
		err     error
		check   func(t *testing.T, d *Dashboard)
	}{
		{
			name:    "login",
			control: "login",
			values:  url.Values{"username": {" ana "}, "password": {"secret"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().Login(gomock.Any(), "ana", "secret").Return(employee, nil)
				g.EXPECT().ListPosts(gomock.Any()).Return(nil, nil)
			},
			check: func(t *testing.T, d *Dashboard) {
				assert.Equal(t, EmployeeScreen, d.Screen())
			},
		},
		{
			name:    "logout",
			user:    admin,
			control: "logout",
			expect:  func(*mock.MockGateway) {},
			check: func(t *testing.T, d *Dashboard) {
				assert.Equal(t, LoginScreen, d.Screen())
				assert.Nil(t, d.State().User)
			},
		},
		{
			name:    "tab",
			user:    admin,
			control: "tab",
			values:  url.Values{"tab": {"ranking"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().GetReports(gomock.Any(), &gateway.ReportParams{Period: entities.MonthlyPeriod}).Return(nil, nil)
			},
			check: func(t *testing.T, d *Dashboard) {
				assert.Equal(t, RankingTab, d.State().Tab)
			},
		},
		{
			name:    "report_all_users",
			user:    admin,
			control: "report.generate",
			values:  url.Values{"period": {"weekly"}, "user_id": {""}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().GetReports(gomock.Any(), &gateway.ReportParams{Period: entities.WeeklyPeriod}).Return(nil, nil)
			},
		},
		{
			name:    "report_invalid_period",
			user:    admin,
			control: "report.generate",
			values:  url.Values{"period": {"yearly"}},
			expect:  func(*mock.MockGateway) {},
			err:     ErrInvalidRequest,
		},
		{
			name:    "post_new",
			user:    employee,
			control: "post.new",
			expect:  func(*mock.MockGateway) {},
			check: func(t *testing.T, d *Dashboard) {
				assert.True(t, d.State().Forms[PostForm].Visible)
			},
		},
		{
			name:    "post_delete_unconfirmed",
			user:    employee,
			control: "post.delete",
			values:  url.Values{"id": {"4"}},
			expect:  func(*mock.MockGateway) {},
		},
		{
			name:    "post_delete",
			user:    employee,
			control: "post.delete",
			values:  url.Values{"id": {"4"}, "confirm": {"true"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().DeletePost(gomock.Any(), uint64(4)).Return(nil)
				g.EXPECT().ListPosts(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:    "post_delete_without_id",
			user:    employee,
			control: "post.delete",
			values:  url.Values{"confirm": {"true"}},
			expect:  func(*mock.MockGateway) {},
			err:     ErrInvalidRequest,
		},
		{
			name:    "share_submit",
			user:    employee,
			control: "share.submit",
			values:  url.Values{"original_post_id": {"1"}, "shares_count": {"5"}, "post_date": {"2024-03-05"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().CreateShare(gomock.Any(), &gateway.ShareParams{
					OriginalPostID: 1,
					SharesCount:    5,
					PostDate:       "2024-03-05",
				}).Return(nil)
				g.EXPECT().ListPosts(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:    "share_submit_no_post",
			user:    employee,
			control: "share.submit",
			values:  url.Values{"original_post_id": {""}, "shares_count": {"5"}},
			expect:  func(*mock.MockGateway) {},
			err:     ErrInvalidRequest,
		},
		{
			name:    "user_submit_invalid_role",
			user:    admin,
			control: "user.submit",
			values:  url.Values{"username": {"carla"}, "role": {"root"}, "password": {"x"}},
			expect:  func(*mock.MockGateway) {},
			err:     ErrInvalidRequest,
		},
		{
			name:    "user_submit",
			user:    admin,
			control: "user.submit",
			values:  url.Values{"id": {""}, "username": {"carla"}, "role": {"employee"}, "password": {"x"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().CreateUser(gomock.Any(), &gateway.UserParams{
					Username: "carla",
					Role:     entities.EmployeeRole,
					Password: "x",
				}).Return(nil)
				g.EXPECT().ListUsers(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:    "goal_submit_collective",
			user:    admin,
			control: "goal.submit",
			values: url.Values{
				"id":           {"9"},
				"user_id":      {""},
				"goal_type":    {"daily"},
				"target_value": {"3"},
				"start_date":   {"2024-03-01"},
				"end_date":     {"2024-03-31"},
			},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().UpdateGoal(gomock.Any(), &gateway.GoalParams{
					ID:          9,
					GoalType:    entities.DailyPeriod,
					TargetValue: 3,
					StartDate:   "2024-03-01",
					EndDate:     "2024-03-31",
				}).Return(nil)
				g.EXPECT().ListGoals(gomock.Any()).Return(nil, nil)
			},
		},
		{
			name:    "goal_submit_invalid_type",
			user:    admin,
			control: "goal.submit",
			values:  url.Values{"goal_type": {"hourly"}, "target_value": {"3"}},
			expect:  func(*mock.MockGateway) {},
			err:     ErrInvalidRequest,
		},
		{
			name:    "goal_edit",
			user:    admin,
			control: "goal.edit",
			values:  url.Values{"id": {"2"}},
			expect: func(g *mock.MockGateway) {
				g.EXPECT().ListGoals(gomock.Any()).Return([]*entities.Goal{
					{ID: 2, UserID: uint64Ptr(3), GoalType: entities.WeeklyPeriod, TargetValue: 5},
				}, nil)
			},
			check: func(t *testing.T, d *Dashboard) {
				f := d.State().Forms[GoalForm]
				assert.True(t, f.Visible)
				assert.Equal(t, "3", f.Values["user_id"])
				assert.Equal(t, "weekly", f.Values["goal_type"])
			},
		},
		{
			name:    "goal_cancel",
			user:    admin,
			control: "goal.cancel",
			expect:  func(*mock.MockGateway) {},
			check: func(t *testing.T, d *Dashboard) {
				assert.False(t, d.State().Forms[GoalForm].Visible)
			},
		},
	}

	a := NewActions()

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			g := mock.NewMockGateway(ctrl)
			tc.expect(g)

			d := New(g)
			if tc.user != nil {
				d = authenticated(g, tc.user, "")
			}

			err := a.Dispatch(context.Background(), d, tc.control, tc.values)
			if tc.err != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.err))
				return
			}

			require.NoError(t, err)
			if tc.check != nil {
				tc.check(t, d)
			}
		})
	}
}
