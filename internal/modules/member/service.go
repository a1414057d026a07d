package member

import (
	"errors"

	"github.com/teamboard/core/internal/database"
	"github.com/teamboard/core/internal/models"
	"github.com/teamboard/core/internal/pkg/pagination"
	"github.com/teamboard/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) listQuery() *gorm.DB {
	return s.db.Model(&models.Member{}).Order("id ASC")
}

// List returns every member ordered by id.
func (s *Service) List() ([]Detail, error) {
	var items []models.Member
	if err := s.listQuery().Find(&items).Error; err != nil {
		return nil, err
	}
	return s.hydrate(items)
}

// ListPage is List restricted to one page.
func (s *Service) ListPage(q pagination.Query) ([]Detail, response.Pagination, error) {
	var items []models.Member
	pag, err := pagination.Paginate(s.listQuery(), q, &items)
	if err != nil {
		return nil, response.Pagination{}, err
	}
	out, err := s.hydrate(items)
	return out, pag, err
}

// GetByID returns nil, nil when the member does not exist.
func (s *Service) GetByID(id uint) (*Detail, error) {
	var m models.Member
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	out, err := s.hydrate([]models.Member{m})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *Service) Create(dto *MemberDTO) (*Detail, error) {
	m := models.Member{
		Name: dto.Name, Role: dto.Role, Avatar: dto.Avatar, Email: dto.Email,
		Phone: dto.Phone, Github: dto.Github, Linkedin: dto.Linkedin,
		Skills: dto.skills(),
	}
	if err := s.db.Create(&m).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return &Detail{Member: m}, nil
}

// Update returns nil, nil when the member does not exist.
func (s *Service) Update(id uint, dto *MemberDTO) (*Detail, error) {
	var m models.Member
	if err := s.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":     dto.Name,
			"role":     dto.Role,
			"avatar":   dto.Avatar,
			"email":    dto.Email,
			"phone":    dto.Phone,
			"github":   dto.Github,
			"linkedin": dto.Linkedin,
		}
		if err := tx.Model(&m).Updates(updates).Error; err != nil {
			return err
		}
		if dto.Skills == nil {
			return nil
		}
		if err := tx.Where("member_id = ?", m.ID).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		skills := dto.skills()
		if len(skills) == 0 {
			return nil
		}
		for i := range skills {
			skills[i].MemberID = m.ID
		}
		return tx.Create(&skills).Error
	})
	if err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return s.GetByID(id)
}

// Delete removes the member and its skills and unassigns its projects.
// It reports false when the member does not exist.
func (s *Service) Delete(id uint) (bool, error) {
	found := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", id).Delete(&models.Skill{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Project{}).Where("member_id = ?", id).
			Update("member_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Member{}, id)
		if res.Error != nil {
			return res.Error
		}
		found = res.RowsAffected > 0
		return nil
	})
	return found, err
}

type projectCount struct {
	MemberID uint
	Count    int64
}

// hydrate attaches skills and project counts with one query each.
func (s *Service) hydrate(items []models.Member) ([]Detail, error) {
	out := make([]Detail, len(items))
	if len(items) == 0 {
		return out, nil
	}
	ids := make([]uint, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	var skills []models.Skill
	if err := s.db.Where("member_id IN ?", ids).Order("id ASC").Find(&skills).Error; err != nil {
		return nil, err
	}
	byMember := make(map[uint][]models.Skill, len(items))
	for _, sk := range skills {
		byMember[sk.MemberID] = append(byMember[sk.MemberID], sk)
	}

	var rows []projectCount
	err := s.db.Model(&models.Project{}).
		Select("member_id, COUNT(*) AS count").
		Where("member_id IN ?", ids).
		Group("member_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, r := range rows {
		counts[r.MemberID] = r.Count
	}

	for i := range items {
		items[i].Skills = byMember[items[i].ID]
		out[i] = Detail{Member: items[i], ProjectCount: counts[items[i].ID]}
	}
	return out, nil
}
