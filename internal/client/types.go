package client

import (
	"encoding/json"
	"time"

	"github.com/teamboard/core/internal/models"
)

type Skill struct {
	SkillName   string `json:"skill_name"`
	Proficiency string `json:"proficiency"`
}

type Member struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Avatar       string    `json:"avatar"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Github       string    `json:"github"`
	Linkedin     string    `json:"linkedin"`
	ProjectCount int64     `json:"project_count"`
	Skills       []Skill   `json:"skills"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MemberInput is the body of member create and update. A nil Skills leaves
// the member's skills untouched on update; an empty one clears them.
type MemberInput struct {
	Name     string  `json:"name"`
	Role     string  `json:"role"`
	Avatar   string  `json:"avatar"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Github   string  `json:"github"`
	Linkedin string  `json:"linkedin"`
	Skills   []Skill `json:"skills,omitempty"`
}

// MarshalJSON sends "skills" whenever Skills is non-nil, including as [].
func (in MemberInput) MarshalJSON() ([]byte, error) {
	type plain MemberInput
	body := struct {
		plain
		Skills *[]Skill `json:"skills,omitempty"`
	}{plain: plain(in)}
	if in.Skills != nil {
		body.Skills = &in.Skills
	}
	return json.Marshal(body)
}

type Project struct {
	ID           uint                   `json:"id"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	MemberID     *uint                  `json:"member_id"`
	Status       models.ProjectStatus   `json:"status"`
	Priority     models.ProjectPriority `json:"priority"`
	StartDate    models.Date            `json:"start_date"`
	EndDate      models.Date            `json:"end_date"`
	Progress     int                    `json:"progress"`
	Technologies models.StringArray     `json:"technologies"`
	GithubRepo   string                 `json:"github_repo"`
	MemberName   *string                `json:"member_name"`
	MemberAvatar *string                `json:"member_avatar"`
	MemberEmail  *string                `json:"member_email,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

type ProjectInput struct {
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	MemberID     *uint                  `json:"member_id"`
	Status       models.ProjectStatus   `json:"status"`
	Priority     models.ProjectPriority `json:"priority"`
	StartDate    models.Date            `json:"start_date"`
	EndDate      models.Date            `json:"end_date"`
	Progress     int                    `json:"progress"`
	Technologies models.StringArray     `json:"technologies"`
	GithubRepo   string                 `json:"github_repo"`
}

// ProjectFilter narrows ListProjects. Empty fields and the status "all" match everything.
type ProjectFilter struct {
	Status   string
	MemberID uint
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type MemberCount struct {
	Name         string `json:"name"`
	ProjectCount int64  `json:"project_count"`
}

type Stats struct {
	TotalMembers      int64         `json:"total_members"`
	TotalProjects     int64         `json:"total_projects"`
	CompletedProjects int64         `json:"completed_projects"`
	OngoingProjects   int64         `json:"ongoing_projects"`
	PendingProjects   int64         `json:"pending_projects"`
	OnHoldProjects    int64         `json:"on_hold_projects"`
	AvgProgress       *float64      `json:"avg_progress"`
	ProjectsByStatus  []StatusCount `json:"projectsByStatus"`
	ProjectsByMember  []MemberCount `json:"projectsByMember"`
}

type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  bool      `json:"database"`
	Redis     *bool     `json:"redis,omitempty"`
}
