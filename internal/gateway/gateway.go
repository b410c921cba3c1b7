// Package gateway contains an interface of the tracker API client.
package gateway

import (
	"context"
	"errors"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/health"
)

//go:generate mockgen -destination=./mock/gateway.go -package=mock -source=gateway.go

// ErrConnection is returned when request to the tracker API was not completed.
var ErrConnection = errors.New("connection failed")

// APIError is an application-level failure reported by the tracker API (`success: false`).
type APIError struct {
	Message string
}

// Error ...
func (e *APIError) Error() string {
	return e.Message
}

// Gateway provides methods for interacting with the tracker API.
type Gateway interface {
	health.Pinger

	Login(ctx context.Context, username, password string) (*entities.User, error)

	ListPosts(ctx context.Context) ([]*entities.Post, error)
	CreatePost(ctx context.Context, p *PostParams) error
	UpdatePost(ctx context.Context, p *PostParams) error
	DeletePost(ctx context.Context, id uint64) error

	ListShareablePosts(ctx context.Context) ([]*entities.Post, error)
	CreateShare(ctx context.Context, p *ShareParams) error

	ListUsers(ctx context.Context) ([]*entities.User, error)
	CreateUser(ctx context.Context, p *UserParams) error
	UpdateUser(ctx context.Context, p *UserParams) error
	DeleteUser(ctx context.Context, id uint64) error

	ListGoals(ctx context.Context) ([]*entities.Goal, error)
	CreateGoal(ctx context.Context, p *GoalParams) error
	UpdateGoal(ctx context.Context, p *GoalParams) error
	DeleteGoal(ctx context.Context, id uint64) error

	GetReports(ctx context.Context, p *ReportParams) ([]*entities.Report, error)
}

// PostParams ...
// ID is ignored on create.
type PostParams struct {
	ID       uint64
	Content  string
	PostDate string
	Type     entities.PostType
}

// ShareParams ...
type ShareParams struct {
	OriginalPostID uint64
	SharesCount    int
	PostDate       string
}

// UserParams ...
// Empty Password keeps the stored credential on update.
type UserParams struct {
	ID       uint64
	Username string
	Role     entities.Role
	Password string
}

// GoalParams ...
// Nil UserID creates a collective goal.
type GoalParams struct {
	ID          uint64
	UserID      *uint64
	GoalType    entities.Period
	TargetValue int
	StartDate   string
	EndDate     string
}

// ReportParams ...
// Nil UserID requests one row per user.
type ReportParams struct {
	Period entities.Period
	UserID *uint64
}

// Message returns the server-supplied message if err is an APIError.
func Message(err error) (string, bool) {
	var e *APIError
	if errors.As(err, &e) {
		return e.Message, true
	}

	return "", false
}
