package member

import (
	"errors"
	"strings"
	"time"

	"github.com/teamboard/core/internal/models"
)

type SkillDTO struct {
	SkillName   string `json:"skill_name"  binding:"required"`
	Proficiency string `json:"proficiency"`
}

// MemberDTO is the body of both create and update. Update replaces every
// scalar field; Skills replaces the skill set only when present.
type MemberDTO struct {
	Name     string     `json:"name"     binding:"required"`
	Role     string     `json:"role"`
	Avatar   string     `json:"avatar"`
	Email    string     `json:"email"    binding:"required"`
	Phone    string     `json:"phone"`
	Github   string     `json:"github"`
	Linkedin string     `json:"linkedin"`
	Skills   []SkillDTO `json:"skills"   binding:"omitempty,dive"`
}

func (d *MemberDTO) normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
}

func (d *MemberDTO) skills() []models.Skill {
	out := make([]models.Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		name := strings.TrimSpace(s.SkillName)
		if name == "" {
			continue
		}
		out = append(out, models.Skill{SkillName: name, Proficiency: strings.TrimSpace(s.Proficiency)})
	}
	return out
}

// Detail is a member with its skills loaded and its project count.
type Detail struct {
	models.Member
	ProjectCount int64
}

type skillResponse struct {
	SkillName   string `json:"skill_name"`
	Proficiency string `json:"proficiency"`
}

type memberResponse struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Role         string          `json:"role"`
	Avatar       string          `json:"avatar"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Github       string          `json:"github"`
	Linkedin     string          `json:"linkedin"`
	ProjectCount int64           `json:"project_count"`
	Skills       []skillResponse `json:"skills"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var (
	// ErrEmailExists is returned when another member already uses the email.
	ErrEmailExists = errors.New("email already exists")
)

func toResponse(d *Detail) memberResponse {
	skills := make([]skillResponse, len(d.Skills))
	for i, s := range d.Skills {
		skills[i] = skillResponse{SkillName: s.SkillName, Proficiency: s.Proficiency}
	}
	return memberResponse{
		ID: d.ID, Name: d.Name, Role: d.Role, Avatar: d.Avatar, Email: d.Email,
		Phone: d.Phone, Github: d.Github, Linkedin: d.Linkedin,
		ProjectCount: d.ProjectCount, Skills: skills,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}
