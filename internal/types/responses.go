package types

import "time"

type UserResponse struct {
	ID              uint   `json:"id"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	DateOfBirth     string `json:"date_of_birth"`
	CanBeContacted  bool   `json:"can_be_contacted"`
	CanDataBeShared bool   `json:"can_data_be_shared"`
}

type ProjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProjectType string    `json:"project_type"`
	Creator     string    `json:"creator"`
	CreatedAt   time.Time `json:"created_at"`
}

type ProjectDetailResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProjectType  string    `json:"project_type"`
	Creator      string    `json:"creator"`
	Contributors []string  `json:"contributors"`
	CreatedAt    time.Time `json:"created_at"`
}

// IssueResponse is the issue summary embedded in project detail and issue
// listings; assigned_to is the assignee's username or null.
type IssueResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	AssignedTo  *string   `json:"assigned_to"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	Tag         string    `json:"tag"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	Creator   string    `json:"creator"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
