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

type CommentRequest struct {
	Comment string `json:"comment" binding:"required"`
}

func commentResponse(comment *models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:        comment.ID,
		Creator:   comment.Creator.Username,
		Comment:   comment.Comment,
		CreatedAt: comment.CreatedAt,
	}
}

// loadComment fetches a comment with its creator and the issue's project,
// which the write-permission check needs.
func loadComment(id string) (*models.Comment, error) {
	var comment models.Comment

	err := db.DB.Preload("Creator").Preload("Issue.Project").
		First(&comment, "id = ?", id).Error

	if err != nil {
		return nil, err
	}

	return &comment, nil
}

func CreateComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var issue models.Issue

	if err := db.DB.First(&issue, "id = ?", ctx.Param("issue_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Issue not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve issue"})
		}
		return
	}

	// The creator is taken from the membership row itself, so a stored
	// comment always points at a user who held a membership at creation.
	var membership models.ProjectContributor

	err = db.DB.Where("project_id = ? AND contributor_id = ?", issue.ProjectID, userID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusForbidden, gin.H{"message": "You are not a contributor to this project and cannot create a comment"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve contributor"})
		}
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	comment := models.Comment{
		IssueID:   issue.ID,
		CreatorID: membership.ContributorID,
		Comment:   body.Comment,
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		log.Printf("Failed to create comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create comment"})
		return
	}

	if err := db.DB.Preload("Creator").First(&comment, comment.ID).Error; err != nil {
		log.Printf("Failed to reload comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, commentResponse(&comment))
}

func GetComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	comment, err := loadComment(ctx.Param("comment_id"))

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve comment"})
		}
		return
	}

	if !permissions.CanWriteComment(userID, comment) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to get this comment"})
		return
	}

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

func UpdateComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	comment, err := loadComment(ctx.Param("comment_id"))

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve comment"})
		}
		return
	}

	if !permissions.CanWriteComment(userID, comment) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to update this comment"})
		return
	}

	var body CommentRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	if err := db.DB.Model(comment).Update("comment", body.Comment).Error; err != nil {
		log.Printf("Failed to update comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update comment"})
		return
	}

	ctx.JSON(http.StatusOK, commentResponse(comment))
}

func DeleteComment(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	comment, err := loadComment(ctx.Param("comment_id"))

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve comment"})
		}
		return
	}

	if !permissions.CanWriteComment(userID, comment) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to delete this comment"})
		return
	}

	if err := db.DB.Unscoped().Delete(comment).Error; err != nil {
		log.Printf("Failed to delete comment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete comment"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
