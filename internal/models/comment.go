package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model

	IssueID   uint   `gorm:"not null;index"`
	CreatorID uint   `gorm:"not null;index"`
	Comment   string `gorm:"not null"`

	// Relationships
	Issue   Issue `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator User  `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
