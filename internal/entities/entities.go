// Package entities contains main entities of service.
package entities

// Role ...
type Role string

const (
	// AdminRole ...
	AdminRole Role = "admin"
	// EmployeeRole ...
	EmployeeRole Role = "employee"
)

// PostType ...
type PostType string

const (
	// OriginalPostType marks a post written by the employee.
	OriginalPostType PostType = "post"
	// SharePostType marks a share of another post.
	SharePostType PostType = "share"
)

// Period is a reporting window. Goals use the same values as their goal type.
type Period string

const (
	// DailyPeriod ...
	DailyPeriod Period = "daily"
	// WeeklyPeriod ...
	WeeklyPeriod Period = "weekly"
	// MonthlyPeriod ...
	MonthlyPeriod Period = "monthly"
)

// IsValid returns true if period is one of known periods.
func (p Period) IsValid() bool {
	switch p {
	case DailyPeriod, WeeklyPeriod, MonthlyPeriod:
		return true
	default:
		return false
	}
}

// User ...
type User struct {
	ID       uint64 `json:"id,omitempty"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin ...
func (u User) IsAdmin() bool {
	return u.Role == AdminRole
}

// Post ...
// Dates are kept in the YYYY-MM-DD form they are exchanged with the tracker API.
type Post struct {
	ID          uint64   `json:"id"`
	Content     string   `json:"content"`
	PostDate    string   `json:"post_date"`
	Type        PostType `json:"type"`
	SharesCount int      `json:"shares_count"`
	Username    string   `json:"username,omitempty"`
}

// IsShare ...
func (p Post) IsShare() bool {
	return p.Type == SharePostType
}

// Goal ...
// Nil UserID means a collective goal.
type Goal struct {
	ID          uint64  `json:"id"`
	UserID      *uint64 `json:"user_id"`
	GoalType    Period  `json:"goal_type"`
	TargetValue int     `json:"target_value"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Username    string  `json:"username,omitempty"`
}

// IsCollective ...
func (g Goal) IsCollective() bool {
	return g.UserID == nil
}

// Report is an aggregation of user's activity over a period.
type Report struct {
	Username    string `json:"username"`
	TotalPosts  int    `json:"total_posts"`
	PostsCount  int    `json:"posts_count"`
	SharesCount int    `json:"shares_count"`
}
