package project

import (
	"errors"
	"strings"

	"github.com/teamboard/core/internal/models"
)

// ProjectDTO is the body of both create and update. Omitted status, priority
// and progress fall back to pending, medium and 0.
type ProjectDTO struct {
	Title        string                 `json:"title"        binding:"required"`
	Description  string                 `json:"description"`
	MemberID     *uint                  `json:"member_id"`
	Status       models.ProjectStatus   `json:"status"       binding:"omitempty,oneof=pending in-progress completed on-hold"`
	Priority     models.ProjectPriority `json:"priority"     binding:"omitempty,oneof=low medium high urgent"`
	StartDate    models.Date            `json:"start_date"`
	EndDate      models.Date            `json:"end_date"`
	Progress     *int                   `json:"progress"     binding:"omitempty,min=0,max=100"`
	Technologies models.StringArray     `json:"technologies"`
	GithubRepo   string                 `json:"github_repo"`
}

func (d *ProjectDTO) normalize() {
	d.Title = strings.TrimSpace(d.Title)
	if d.Status == "" {
		d.Status = models.StatusPending
	}
	if d.Priority == "" {
		d.Priority = models.PriorityMedium
	}
	if d.Progress == nil {
		zero := 0
		d.Progress = &zero
	}
	d.Technologies = d.Technologies.Compact()
	if d.MemberID != nil && *d.MemberID == 0 {
		d.MemberID = nil
	}
}

func (d *ProjectDTO) validate() error {
	if d.Title == "" {
		return errors.New("title is required")
	}
	if d.StartDate.Valid && d.EndDate.Valid && d.EndDate.Time.Before(d.StartDate.Time) {
		return errors.New("end_date must not be before start_date")
	}
	return nil
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Status   models.ProjectStatus
	MemberID *uint
}

// Row is a project joined with its assignee, as listed.
type Row struct {
	models.Project
	MemberName   *string `json:"member_name"`
	MemberAvatar *string `json:"member_avatar"`
}

// Detail is the single project view. MemberEmail is null when unassigned.
type Detail struct {
	Row
	MemberEmail *string `json:"member_email"`
}

var (
	// ErrMemberMissing is returned when member_id names no member.
	ErrMemberMissing = errors.New("member does not exist")
)
