package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/softdesk-dev/softdesk/internal/permissions"
	"github.com/softdesk-dev/softdesk/internal/types"
	"github.com/softdesk-dev/softdesk/internal/utils"
	"gorm.io/gorm"
)

type CreateIssueRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Tag         string `json:"tag" binding:"omitempty,oneof=bug feature task"`
	Priority    string `json:"priority" binding:"required,oneof=low medium high"`
	Status      string `json:"status" binding:"omitempty,oneof=to-do 'in progress' finished"`
	AssignedTo  string `json:"assigned_to"`
}

type UpdateIssueRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Tag         string  `json:"tag" binding:"omitempty,oneof=bug feature task"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
	Status      string  `json:"status" binding:"omitempty,oneof=to-do 'in progress' finished"`
	AssignedTo  *string `json:"assigned_to"`
}

// resolveAssignee maps an assignee username to a user ID, requiring the
// user to exist and to hold a membership on the project.
func resolveAssignee(ctx *gin.Context, projectID uint, username string) (uint, bool) {
	var assignee models.User

	if err := db.DB.Where("username = ?", username).First(&assignee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "The specified user does not exist"})
		} else {
			log.Printf("Failed to retrieve assignee: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		}
		return 0, false
	}

	if !permissions.CanAssignIssue(assignee.ID, projectID) {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "The specified user is not a contributor to this project"})
		return 0, false
	}

	return assignee.ID, true
}

func CreateIssue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("project_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		}
		return
	}

	if !permissions.CanCreateIssue(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You are not a contributor to this project"})
		return
	}

	var body CreateIssueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if body.Tag == "" {
		body.Tag = models.IssueTagTask
	}

	if body.Status == "" {
		body.Status = models.IssueStatusToDo
	}

	issue := models.Issue{
		ProjectID:   project.ID,
		CreatorID:   userID,
		Name:        body.Name,
		Description: body.Description,
		Tag:         body.Tag,
		Priority:    body.Priority,
		Status:      body.Status,
	}

	if body.AssignedTo != "" {
		assigneeID, ok := resolveAssignee(ctx, project.ID, body.AssignedTo)

		if !ok {
			return
		}

		issue.AssignedToID = &assigneeID
	}

	if err := db.DB.Create(&issue).Error; err != nil {
		log.Printf("Failed to create issue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create issue"})
		return
	}

	if err := db.DB.Preload("Creator").Preload("AssignedTo").First(&issue, issue.ID).Error; err != nil {
		log.Printf("Failed to reload issue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, issueResponse(&issue))
}

func GetIssue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var issue models.Issue

	err = db.DB.Preload("Project").Preload("Creator").Preload("AssignedTo").
		First(&issue, "id = ?", ctx.Param("issue_id")).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	if !permissions.CanReadIssue(userID, &issue) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You are not a contributor to this project"})
		return
	}

	page, pageSize := utils.PageParams(ctx)

	var commentCount int64

	if err := db.DB.Model(&models.Comment{}).Where("issue_id = ?", issue.ID).Count(&commentCount).Error; err != nil {
		log.Printf("Failed to count comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		return
	}

	var comments []models.Comment

	err = db.DB.Preload("Creator").
		Where("issue_id = ?", issue.ID).
		Scopes(utils.Paginate(page, pageSize)).
		Find(&comments).Error

	if err != nil {
		log.Printf("Failed to retrieve comments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		return
	}

	commentSummaries := make([]types.CommentResponse, 0, len(comments))

	for i := range comments {
		commentSummaries = append(commentSummaries, commentResponse(&comments[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"issue_details":  issueResponse(&issue),
		"issue_comments": commentSummaries,
		"count":          commentCount,
		"page":           page,
		"page_size":      pageSize,
	})
}

func UpdateIssue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var issue models.Issue

	if err := db.DB.Preload("Project").First(&issue, "id = ?", ctx.Param("issue_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	if !permissions.CanWriteIssue(userID, &issue) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to update this issue"})
		return
	}

	var body UpdateIssueRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Name != "" {
		updates["name"] = body.Name
	}

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Tag != "" {
		updates["tag"] = body.Tag
	}

	if body.Priority != "" {
		updates["priority"] = body.Priority
	}

	if body.Status != "" {
		updates["status"] = body.Status
	}

	if body.AssignedTo != nil {
		// Reassignment requires the acting user to be a contributor itself;
		// an empty value clears the assignment.
		if !permissions.IsContributor(userID, issue.ProjectID) {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "You are not a contributor to this project"})
			return
		}

		if *body.AssignedTo == "" {
			updates["assigned_to_id"] = nil
		} else {
			assigneeID, ok := resolveAssignee(ctx, issue.ProjectID, *body.AssignedTo)

			if !ok {
				return
			}

			updates["assigned_to_id"] = assigneeID
		}
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&issue).Updates(updates).Error; err != nil {
		log.Printf("Failed to update issue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update issue"})
		return
	}

	if err := db.DB.Preload("Creator").Preload("AssignedTo").First(&issue, issue.ID).Error; err != nil {
		log.Printf("Failed to reload issue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, issueResponse(&issue))
}

// DeleteIssue removes the issue and its comments in one transaction.
func DeleteIssue(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var issue models.Issue

	if err := db.DB.Preload("Project").First(&issue, "id = ?", ctx.Param("issue_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	if !permissions.CanWriteIssue(userID, &issue) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to delete this issue"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("issue_id = ?", issue.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&issue).Error
	})

	if err != nil {
		log.Printf("Failed to delete issue: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete issue"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
