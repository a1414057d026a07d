package stats

import (
	"database/sql"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/teamboard/core/internal/models"
	"github.com/teamboard/core/internal/pkg/response"
	"gorm.io/gorm"
)

type StatusCount struct {
	Status models.ProjectStatus `json:"status"`
	Count  int64                `json:"count"`
}

type MemberCount struct {
	Name         string `json:"name"`
	ProjectCount int64  `json:"project_count"`
}

// Summary is the dashboard aggregate. TotalProjects always equals the sum of
// ProjectsByStatus counts.
type Summary struct {
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

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) Summary() (*Summary, error) {
	out := &Summary{
		ProjectsByStatus: []StatusCount{},
		ProjectsByMember: []MemberCount{},
	}

	if err := s.db.Model(&models.Member{}).Count(&out.TotalMembers).Error; err != nil {
		return nil, err
	}

	var grouped []StatusCount
	err := s.db.Model(&models.Project{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&grouped).Error
	if err != nil {
		return nil, err
	}
	byStatus := make(map[models.ProjectStatus]int64, len(grouped))
	for _, g := range grouped {
		byStatus[g.Status] += g.Count
		out.TotalProjects += g.Count
	}
	for _, status := range models.ProjectStatuses {
		if n, ok := byStatus[status]; ok {
			out.ProjectsByStatus = append(out.ProjectsByStatus, StatusCount{Status: status, Count: n})
			delete(byStatus, status)
		}
	}
	// Rows written outside the API may carry other statuses; keep them so the totals add up.
	for _, g := range grouped {
		if n, ok := byStatus[g.Status]; ok {
			out.ProjectsByStatus = append(out.ProjectsByStatus, StatusCount{Status: g.Status, Count: n})
			delete(byStatus, g.Status)
		}
	}
	out.CompletedProjects = countOf(out.ProjectsByStatus, models.StatusCompleted)
	out.OngoingProjects = countOf(out.ProjectsByStatus, models.StatusInProgress)
	out.PendingProjects = countOf(out.ProjectsByStatus, models.StatusPending)
	out.OnHoldProjects = countOf(out.ProjectsByStatus, models.StatusOnHold)

	var avg sql.NullFloat64
	err = s.db.Model(&models.Project{}).
		Select("AVG(progress)").
		Where("status <> ?", models.StatusCompleted).
		Row().Scan(&avg)
	if err != nil {
		return nil, err
	}
	if avg.Valid {
		rounded := math.Round(avg.Float64*100) / 100
		out.AvgProgress = &rounded
	}

	err = s.db.Table("members").
		Select("members.name AS name, COUNT(projects.id) AS project_count").
		Joins("LEFT JOIN projects ON projects.member_id = members.id").
		Group("members.id, members.name").
		Order("project_count DESC, members.id ASC").
		Scan(&out.ProjectsByMember).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func countOf(items []StatusCount, status models.ProjectStatus) int64 {
	for _, item := range items {
		if item.Status == status {
			return item.Count
		}
	}
	return 0
}

func RegisterRoutes(rg *gin.RouterGroup, svc *Service) {
	rg.GET("/stats", func(c *gin.Context) {
		summary, err := svc.Summary()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, summary)
	})
}
