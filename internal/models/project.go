package models

import "gorm.io/gorm"

const (
	ProjectTypeBackEnd  = "back-end"
	ProjectTypeFrontEnd = "front-end"
	ProjectTypeIOS      = "iOS"
	ProjectTypeAndroid  = "Android"
	ProjectTypeWeb      = "web"
	ProjectTypeMobile   = "mobile"
	ProjectTypeData     = "data"
	ProjectTypeAI       = "ai"
	ProjectTypeIOT      = "iot"
)

type Project struct {
	gorm.Model

	CreatorID   uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Description string
	ProjectType string `gorm:"not null"`

	// Relationships
	Creator      User                 `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Contributors []ProjectContributor `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Issues       []Issue              `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
