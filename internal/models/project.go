package models

// ProjectStatus is one of the four workflow states of a project.
type ProjectStatus string

const (
	StatusPending    ProjectStatus = "pending"
	StatusInProgress ProjectStatus = "in-progress"
	StatusCompleted  ProjectStatus = "completed"
	StatusOnHold     ProjectStatus = "on-hold"
)

// ProjectStatuses lists every status in display order.
var ProjectStatuses = []ProjectStatus{StatusPending, StatusInProgress, StatusCompleted, StatusOnHold}

func (s ProjectStatus) Valid() bool {
	for _, v := range ProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ProjectPriority ranks how urgent a project is.
type ProjectPriority string

const (
	PriorityLow    ProjectPriority = "low"
	PriorityMedium ProjectPriority = "medium"
	PriorityHigh   ProjectPriority = "high"
	PriorityUrgent ProjectPriority = "urgent"
)

var ProjectPriorities = []ProjectPriority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

func (p ProjectPriority) Valid() bool {
	for _, v := range ProjectPriorities {
		if p == v {
			return true
		}
	}
	return false
}

// Project is a unit of work assigned to a member.
type Project struct {
	Base
	Title        string          `json:"title"        gorm:"size:200;not null"`
	Description  string          `json:"description"  gorm:"type:text"`
	MemberID     *uint           `json:"member_id"    gorm:"index"`
	Status       ProjectStatus   `json:"status"       gorm:"size:20;not null;index;default:'pending'"`
	Priority     ProjectPriority `json:"priority"     gorm:"size:20;not null;default:'medium'"`
	StartDate    Date            `json:"start_date"   gorm:"type:date"`
	EndDate      Date            `json:"end_date"     gorm:"type:date"`
	Progress     int             `json:"progress"     gorm:"not null;default:0"`
	Technologies StringArray     `json:"technologies" gorm:"type:text"`
	GithubRepo   string          `json:"github_repo"  gorm:"size:500"`
}

func (Project) TableName() string { return "projects" }
