package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	Username        string    `gorm:"uniqueIndex;not null"`
	Email           string    `gorm:"not null"`
	PasswordHash    string    `gorm:"not null"`
	DateOfBirth     time.Time `gorm:"not null"`
	CanBeContacted  bool      `gorm:"default:false"`
	CanDataBeShared bool      `gorm:"default:false"`

	// Relationships
	CreatedProjects []Project            `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contributions   []ProjectContributor `gorm:"foreignKey:ContributorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedIssues   []Issue              `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedIssues  []Issue              `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments        []Comment            `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
