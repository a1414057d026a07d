package client

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/teamboard/core/internal/models"
)

// ProjectForm holds project fields as the user typed them.
type ProjectForm struct {
	Title       string
	Description string
	MemberID    string
	Status      string
	Priority    string
	StartDate   string
	EndDate     string
	Progress    string
	// Technologies is comma separated.
	Technologies string
	GithubRepo   string
}

// NewProjectForm returns an empty form with the create defaults.
func NewProjectForm() ProjectForm {
	return ProjectForm{
		Status:   string(models.StatusPending),
		Priority: string(models.PriorityMedium),
		Progress: "0",
	}
}

// FormFromProject pre-fills a form for editing p.
func FormFromProject(p *Project) ProjectForm {
	f := ProjectForm{
		Title:        p.Title,
		Description:  p.Description,
		Status:       string(p.Status),
		Priority:     string(p.Priority),
		StartDate:    p.StartDate.String(),
		EndDate:      p.EndDate.String(),
		Progress:     strconv.Itoa(p.Progress),
		Technologies: strings.Join(p.Technologies, ", "),
		GithubRepo:   p.GithubRepo,
	}
	if p.MemberID != nil {
		f.MemberID = strconv.FormatUint(uint64(*p.MemberID), 10)
	}
	return f
}

// ParseTechnologies splits a comma separated list, dropping blanks.
func ParseTechnologies(raw string) []string {
	return models.ParseStringList(raw)
}

// FieldError names the form field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// Input validates the form and converts it to a request body. Title and
// member are required before anything is sent.
func (f ProjectForm) Input() (ProjectInput, error) {
	var in ProjectInput

	in.Title = strings.TrimSpace(f.Title)
	if in.Title == "" {
		return in, &FieldError{Field: "title", Message: "is required"}
	}

	rawMember := strings.TrimSpace(f.MemberID)
	if rawMember == "" {
		return in, &FieldError{Field: "member", Message: "is required"}
	}
	memberID, err := strconv.ParseUint(rawMember, 10, 0)
	if err != nil || memberID == 0 {
		return in, &FieldError{Field: "member", Message: fmt.Sprintf("%q is not a member id", rawMember)}
	}
	id := uint(memberID)
	in.MemberID = &id

	in.Status = models.ProjectStatus(orDefault(f.Status, string(models.StatusPending)))
	if !in.Status.Valid() {
		return in, &FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", f.Status)}
	}
	in.Priority = models.ProjectPriority(orDefault(f.Priority, string(models.PriorityMedium)))
	if !in.Priority.Valid() {
		return in, &FieldError{Field: "priority", Message: fmt.Sprintf("unknown priority %q", f.Priority)}
	}

	progress, err := strconv.Atoi(orDefault(f.Progress, "0"))
	if err != nil || progress < 0 || progress > 100 {
		return in, &FieldError{Field: "progress", Message: "must be a number between 0 and 100"}
	}
	in.Progress = progress

	if in.StartDate, err = models.ParseDate(f.StartDate); err != nil {
		return in, &FieldError{Field: "start_date", Message: err.Error()}
	}
	if in.EndDate, err = models.ParseDate(f.EndDate); err != nil {
		return in, &FieldError{Field: "end_date", Message: err.Error()}
	}

	in.Description = strings.TrimSpace(f.Description)
	in.Technologies = ParseTechnologies(f.Technologies)
	in.GithubRepo = strings.TrimSpace(f.GithubRepo)
	return in, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
