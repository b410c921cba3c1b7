package rest

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/gateway"
)

// number accepts both JSON numbers and numeric strings, the API encodes database columns either way.
type number int64

// UnmarshalJSON ...
func (n *number) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*n = 0
		return nil
	}

	if v, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		*n = number(v)
		return nil
	}

	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", b, err)
	}
	*n = number(v)

	return nil
}

type result struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	result
	User *userDTO `json:"user"`
}

type userDTO struct {
	ID       number `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (u userDTO) toEntity() *entities.User {
	return &entities.User{
		ID:       uint64(u.ID),
		Username: u.Username,
		Role:     entities.Role(u.Role),
	}
}

type postDTO struct {
	ID          number `json:"id"`
	Content     string `json:"content"`
	PostDate    string `json:"post_date"`
	Type        string `json:"type"`
	SharesCount number `json:"shares_count"`
	Username    string `json:"username"`
}

func (p postDTO) toEntity() *entities.Post {
	return &entities.Post{
		ID:          uint64(p.ID),
		Content:     p.Content,
		PostDate:    p.PostDate,
		Type:        entities.PostType(p.Type),
		SharesCount: int(p.SharesCount),
		Username:    p.Username,
	}
}

type goalDTO struct {
	ID          number  `json:"id"`
	UserID      *number `json:"user_id"`
	GoalType    string  `json:"goal_type"`
	TargetValue number  `json:"target_value"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Username    string  `json:"username"`
}

func (g goalDTO) toEntity() *entities.Goal {
	out := &entities.Goal{
		ID:          uint64(g.ID),
		GoalType:    entities.Period(g.GoalType),
		TargetValue: int(g.TargetValue),
		StartDate:   g.StartDate,
		EndDate:     g.EndDate,
		Username:    g.Username,
	}

	// user ids start from 1, so an empty string is a collective goal as well as null.
	if g.UserID != nil && *g.UserID > 0 {
		id := uint64(*g.UserID)
		out.UserID = &id
	}

	return out
}

type reportsResponse struct {
	Reports []reportDTO `json:"reports"`
	Error   string      `json:"error"`
}

type reportDTO struct {
	Username    string `json:"username"`
	TotalPosts  number `json:"total_posts"`
	PostsCount  number `json:"posts_count"`
	SharesCount number `json:"shares_count"`
}

func (r reportDTO) toEntity() *entities.Report {
	return &entities.Report{
		Username:    r.Username,
		TotalPosts:  int(r.TotalPosts),
		PostsCount:  int(r.PostsCount),
		SharesCount: int(r.SharesCount),
	}
}

type postBody struct {
	ID       *uint64 `json:"id,omitempty"`
	Content  string  `json:"content"`
	PostDate string  `json:"post_date"`
	Type     string  `json:"type"`
}

func toPostBody(p *gateway.PostParams, update bool) postBody {
	b := postBody{
		Content:  p.Content,
		PostDate: p.PostDate,
		Type:     string(p.Type),
	}

	if b.Type == "" {
		b.Type = string(entities.OriginalPostType)
	}

	if update {
		id := p.ID
		b.ID = &id
	}

	return b
}

type shareBody struct {
	OriginalPostID uint64 `json:"original_post_id"`
	SharesCount    int    `json:"shares_count"`
	PostDate       string `json:"post_date"`
}

// userBody never carries an empty password: omitted field keeps the stored credential.
type userBody struct {
	ID       *uint64 `json:"id,omitempty"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Password string  `json:"password,omitempty"`
}

func toUserBody(p *gateway.UserParams, update bool) userBody {
	b := userBody{
		Username: p.Username,
		Role:     string(p.Role),
		Password: p.Password,
	}

	if update {
		id := p.ID
		b.ID = &id
	}

	return b
}

// goalBody always carries user_id, null means a collective goal.
type goalBody struct {
	ID          *uint64 `json:"id,omitempty"`
	UserID      *uint64 `json:"user_id"`
	GoalType    string  `json:"goal_type"`
	TargetValue int     `json:"target_value"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
}

func toGoalBody(p *gateway.GoalParams, update bool) goalBody {
	b := goalBody{
		UserID:      p.UserID,
		GoalType:    string(p.GoalType),
		TargetValue: p.TargetValue,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
	}

	if update {
		id := p.ID
		b.ID = &id
	}

	return b
}
