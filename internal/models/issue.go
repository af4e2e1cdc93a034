package models

import "gorm.io/gorm"

const (
	IssueTagBug     = "bug"
	IssueTagFeature = "feature"
	IssueTagTask    = "task"

	IssuePriorityLow    = "low"
	IssuePriorityMedium = "medium"
	IssuePriorityHigh   = "high"

	IssueStatusToDo       = "to-do"
	IssueStatusInProgress = "in progress"
	IssueStatusFinished   = "finished"
)

type Issue struct {
	gorm.Model

	ProjectID    uint   `gorm:"not null;index"`
	CreatorID    uint   `gorm:"not null;index"`
	Name         string `gorm:"not null"`
	Description  string
	Tag          string `gorm:"not null;default:task"`
	Priority     string `gorm:"not null"`
	Status       string `gorm:"not null;default:to-do"`
	AssignedToID *uint  `gorm:"index"`

	// Relationships
	Project    Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Creator    User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Comments   []Comment `gorm:"foreignKey:IssueID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
