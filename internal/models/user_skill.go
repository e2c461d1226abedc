package models

type SkillKind string

const (
	SkillOffered SkillKind = "offered"
	SkillWanted  SkillKind = "wanted"
)

type UserSkill struct {
	ID     uint64    `gorm:"primarykey" json:"id"`
	UserID uint64    `gorm:"index;not null" json:"user_id"`
	Kind   SkillKind `gorm:"type:varchar(10);not null" json:"kind"`
	Name   string    `gorm:"type:varchar(50);not null" json:"name"`
}
