package project

import (
	"errors"

	"github.com/teamboard/core/internal/database"
	"github.com/teamboard/core/internal/models"
	"github.com/teamboard/core/internal/pkg/pagination"
	"github.com/teamboard/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	listColumns = "projects.*, members.name AS member_name, members.avatar AS member_avatar"
	listOrder   = "projects.created_at DESC, projects.id DESC"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) filtered(f Filter) *gorm.DB {
	tx := s.db.Model(&models.Project{})
	if f.Status != "" {
		tx = tx.Where("projects.status = ?", f.Status)
	}
	if f.MemberID != nil {
		tx = tx.Where("projects.member_id = ?", *f.MemberID)
	}
	return tx
}

func withMember(tx *gorm.DB, columns string) *gorm.DB {
	return tx.Select(columns).Joins("LEFT JOIN members ON members.id = projects.member_id")
}

// List returns the matching projects, newest first.
func (s *Service) List(f Filter) ([]Row, error) {
	items := []Row{}
	err := withMember(s.filtered(f), listColumns).Order(listOrder).Find(&items).Error
	return items, err
}

// ListPage is List restricted to one page.
func (s *Service) ListPage(f Filter, q pagination.Query) ([]Row, response.Pagination, error) {
	var total int64
	if err := s.filtered(f).Count(&total).Error; err != nil {
		return nil, response.Pagination{}, err
	}

	items := []Row{}
	err := withMember(s.filtered(f), listColumns).
		Order(listOrder).
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Find(&items).Error
	if err != nil {
		return nil, response.Pagination{}, err
	}
	return items, pagination.Build(total, q), nil
}

// GetByID returns nil, nil when the project does not exist.
func (s *Service) GetByID(id uint) (*Detail, error) {
	var row Detail
	err := withMember(s.db.Model(&models.Project{}), listColumns+", members.email AS member_email").
		Where("projects.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) Create(dto *ProjectDTO) (*Detail, error) {
	if err := s.ensureMember(dto.MemberID); err != nil {
		return nil, err
	}
	p := models.Project{
		Title: dto.Title, Description: dto.Description, MemberID: dto.MemberID,
		Status: dto.Status, Priority: dto.Priority,
		StartDate: dto.StartDate, EndDate: dto.EndDate,
		Progress: *dto.Progress, Technologies: dto.Technologies, GithubRepo: dto.GithubRepo,
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, translate(err)
	}
	return s.GetByID(p.ID)
}

// Update replaces every field. It returns nil, nil when the project does not exist.
func (s *Service) Update(id uint, dto *ProjectDTO) (*Detail, error) {
	var p models.Project
	if err := s.db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if err := s.ensureMember(dto.MemberID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":        dto.Title,
		"description":  dto.Description,
		"member_id":    dto.MemberID,
		"status":       dto.Status,
		"priority":     dto.Priority,
		"start_date":   dto.StartDate,
		"end_date":     dto.EndDate,
		"progress":     *dto.Progress,
		"technologies": dto.Technologies,
		"github_repo":  dto.GithubRepo,
	}
	if err := s.db.Model(&p).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return s.GetByID(id)
}

// Delete reports false when the project does not exist.
func (s *Service) Delete(id uint) (bool, error) {
	res := s.db.Delete(&models.Project{}, id)
	return res.RowsAffected > 0, res.Error
}

func (s *Service) ensureMember(id *uint) error {
	if id == nil {
		return nil
	}
	var count int64
	if err := s.db.Model(&models.Member{}).Where("id = ?", *id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrMemberMissing
	}
	return nil
}

func translate(err error) error {
	if database.IsForeignKeyViolation(err) {
		return ErrMemberMissing
	}
	return err
}
