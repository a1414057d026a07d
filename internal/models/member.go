package models

// Member is a team/staff record with contact info and skills.
type Member struct {
	Base
	Name     string `json:"name"     gorm:"size:100;not null"`
	Role     string `json:"role"     gorm:"size:100"`
	Avatar   string `json:"avatar"   gorm:"size:500"`
	Email    string `json:"email"    gorm:"size:191;uniqueIndex;not null"`
	Phone    string `json:"phone"    gorm:"size:50"`
	Github   string `json:"github"   gorm:"size:100"`
	Linkedin string `json:"linkedin" gorm:"size:100"`

	Skills   []Skill   `json:"skills" gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
	Projects []Project `json:"-"      gorm:"foreignKey:MemberID;constraint:OnDelete:SET NULL"`
}

func (Member) TableName() string { return "members" }

// Skill is a named competency attached to a member.
type Skill struct {
	ID          uint   `json:"-"           gorm:"primaryKey;autoIncrement"`
	MemberID    uint   `json:"-"           gorm:"index;not null"`
	SkillName   string `json:"skill_name"  gorm:"size:100;not null"`
	Proficiency string `json:"proficiency" gorm:"size:50"`
}

func (Skill) TableName() string { return "skills" }
