// Package rest is implementation of gateway interface over the tracker HTTP+JSON API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
)

var log = logrus.WithField("layer", "gateway").WithField("package", "rest")

const (
	loginPath   = "/login.php"
	postsPath   = "/posts.php"
	sharesPath  = "/shares.php"
	usersPath   = "/users.php"
	goalsPath   = "/goals.php"
	reportsPath = "/reports.php"
)

type client struct {
	baseURL string
	c       *http.Client
}

// New creates new instance of gateway. baseURL is a root of the tracker API, e.g. https://example.com/api.
func New(baseURL string, c *http.Client) gateway.Gateway {
	return client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		c:       c,
	}
}

func (c client) Name() string {
	return "tracker-api"
}

// Ping checks the API host is reachable. Any HTTP response is considered as success.
func (c client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+loginPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", gateway.ErrConnection, err)
	}
	_ = resp.Body.Close()

	return nil
}

func (c client) Login(ctx context.Context, username, password string) (*entities.User, error) {
	var resp loginResponse

	if err := c.do(ctx, http.MethodPost, loginPath, nil, credentials{
		Username: username,
		Password: password,
	}, &resp); err != nil {
		return nil, fmt.Errorf("failed to login: %w", err)
	}

	if !resp.Success || resp.User == nil {
		return nil, fmt.Errorf("failed to login: %w", &gateway.APIError{Message: resp.Error})
	}

	return resp.User.toEntity(), nil
}

func (c client) ListPosts(ctx context.Context) ([]*entities.Post, error) {
	return c.listPosts(ctx, postsPath)
}

func (c client) CreatePost(ctx context.Context, p *gateway.PostParams) error {
	return c.mutate(ctx, http.MethodPost, postsPath, nil, toPostBody(p, false))
}

func (c client) UpdatePost(ctx context.Context, p *gateway.PostParams) error {
	return c.mutate(ctx, http.MethodPut, postsPath, nil, toPostBody(p, true))
}

func (c client) DeletePost(ctx context.Context, id uint64) error {
	return c.mutate(ctx, http.MethodDelete, postsPath, idQuery(id), nil)
}

func (c client) ListShareablePosts(ctx context.Context) ([]*entities.Post, error) {
	return c.listPosts(ctx, sharesPath)
}

func (c client) CreateShare(ctx context.Context, p *gateway.ShareParams) error {
	return c.mutate(ctx, http.MethodPost, sharesPath, nil, shareBody{
		OriginalPostID: p.OriginalPostID,
		SharesCount:    p.SharesCount,
		PostDate:       p.PostDate,
	})
}

func (c client) ListUsers(ctx context.Context) ([]*entities.User, error) {
	var users []userDTO

	if err := c.do(ctx, http.MethodGet, usersPath, nil, nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]*entities.User, len(users))
	for i := range users {
		out[i] = users[i].toEntity()
	}

	return out, nil
}

func (c client) CreateUser(ctx context.Context, p *gateway.UserParams) error {
	return c.mutate(ctx, http.MethodPost, usersPath, nil, toUserBody(p, false))
}

func (c client) UpdateUser(ctx context.Context, p *gateway.UserParams) error {
	return c.mutate(ctx, http.MethodPut, usersPath, nil, toUserBody(p, true))
}

func (c client) DeleteUser(ctx context.Context, id uint64) error {
	return c.mutate(ctx, http.MethodDelete, usersPath, idQuery(id), nil)
}

func (c client) ListGoals(ctx context.Context) ([]*entities.Goal, error) {
	var goals []goalDTO

	if err := c.do(ctx, http.MethodGet, goalsPath, nil, nil, &goals); err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}

	out := make([]*entities.Goal, len(goals))
	for i := range goals {
		out[i] = goals[i].toEntity()
	}

	return out, nil
}

func (c client) CreateGoal(ctx context.Context, p *gateway.GoalParams) error {
	return c.mutate(ctx, http.MethodPost, goalsPath, nil, toGoalBody(p, false))
}

func (c client) UpdateGoal(ctx context.Context, p *gateway.GoalParams) error {
	return c.mutate(ctx, http.MethodPut, goalsPath, nil, toGoalBody(p, true))
}

func (c client) DeleteGoal(ctx context.Context, id uint64) error {
	return c.mutate(ctx, http.MethodDelete, goalsPath, idQuery(id), nil)
}

func (c client) GetReports(ctx context.Context, p *gateway.ReportParams) ([]*entities.Report, error) {
	q := url.Values{}
	q.Set("period", string(p.Period))
	if p.UserID != nil {
		q.Set("user_id", strconv.FormatUint(*p.UserID, 10))
	}

	var resp reportsResponse
	if err := c.do(ctx, http.MethodGet, reportsPath, q, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to get reports: %w", err)
	}

	if resp.Reports == nil && resp.Error != "" {
		return nil, fmt.Errorf("failed to get reports: %w", &gateway.APIError{Message: resp.Error})
	}

	out := make([]*entities.Report, len(resp.Reports))
	for i := range resp.Reports {
		out[i] = resp.Reports[i].toEntity()
	}

	return out, nil
}

func (c client) listPosts(ctx context.Context, path string) ([]*entities.Post, error) {
	var posts []postDTO

	if err := c.do(ctx, http.MethodGet, path, nil, nil, &posts); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	out := make([]*entities.Post, len(posts))
	for i := range posts {
		out[i] = posts[i].toEntity()
	}

	return out, nil
}

// mutate sends a request and checks the {success, error} envelope.
func (c client) mutate(ctx context.Context, method, path string, q url.Values, body interface{}) error {
	var res result

	if err := c.do(ctx, method, path, q, body, &res); err != nil {
		return err
	}

	if !res.Success {
		return &gateway.APIError{Message: res.Error}
	}

	return nil
}

// do performs request and decodes response body into out regardless of status code.
// The API reports application errors in the body, so only a non-decodable body is a transport failure.
func (c client) do(ctx context.Context, method, path string, q url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", gateway.ErrConnection, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read body: %s", gateway.ErrConnection, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"status": resp.StatusCode,
		}).WithError(err).Debug("failed to decode response")

		return fmt.Errorf("%w: failed to decode response: %s", gateway.ErrConnection, err)
	}

	return nil
}

func idQuery(id uint64) url.Values {
	return url.Values{"id": []string{strconv.FormatUint(id, 10)}}
}
