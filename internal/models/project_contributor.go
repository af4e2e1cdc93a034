package models

import "gorm.io/gorm"

// ProjectContributor is the membership row joining a user to a project.
// The composite unique index guarantees a (project, user) pair exists at
// most once even under concurrent add-contributor requests.
type ProjectContributor struct {
	gorm.Model

	ProjectID     uint `gorm:"not null;uniqueIndex:idx_project_contributor"`
	ContributorID uint `gorm:"not null;uniqueIndex:idx_project_contributor"`

	// Relationships
	Project     Project `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contributor User    `gorm:"foreignKey:ContributorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
