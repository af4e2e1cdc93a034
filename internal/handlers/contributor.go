package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/softdesk-dev/softdesk/internal/permissions"
	"github.com/softdesk-dev/softdesk/internal/utils"
	"gorm.io/gorm"
)

type ContributorRequest struct {
	Username string `json:"username" binding:"required"`
}

func contributorUsernames(projectID uint) ([]string, error) {
	var usernames []string

	err := db.DB.Model(&models.ProjectContributor{}).
		Joins("JOIN users ON users.id = project_contributors.contributor_id").
		Where("project_contributors.project_id = ?", projectID).
		Pluck("users.username", &usernames).Error

	return usernames, err
}

func AddContributor(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("project_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project does not exist"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		}
		return
	}

	if !permissions.CanManageContributors(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to add contributors to this project"})
		return
	}

	var body ContributorRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var contributor models.User

	if err := db.DB.Where("username = ?", body.Username).First(&contributor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve user"})
		}
		return
	}

	if permissions.IsContributor(contributor.ID, project.ID) {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("%s is already a contributor to this project", contributor.Username),
		})
		return
	}

	membership := models.ProjectContributor{
		ProjectID:     project.ID,
		ContributorID: contributor.ID,
	}

	// The composite unique index backstops a concurrent add of the same pair.
	if err := db.DB.Create(&membership).Error; err != nil {
		log.Printf("Failed to add contributor: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("%s is already a contributor to this project", contributor.Username),
		})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("%s added as a contributor to this project successfully", contributor.Username),
	})
}

func RemoveContributor(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("project_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project does not exist"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		}
		return
	}

	if !permissions.CanManageContributors(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to remove project contributors"})
		return
	}

	var body ContributorRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	var membership models.ProjectContributor

	err = db.DB.Preload("Contributor").
		Joins("JOIN users ON users.id = project_contributors.contributor_id").
		Where("project_contributors.project_id = ? AND users.username = ?", project.ID, body.Username).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User is not a contributor to this project"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve contributor"})
		}
		return
	}

	// The creator's own membership row can never be removed, by any actor.
	if membership.ContributorID == project.CreatorID {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"message": fmt.Sprintf("%s is project creator and cannot be removed", membership.Contributor.Username),
		})
		return
	}

	if err := db.DB.Unscoped().Delete(&membership).Error; err != nil {
		log.Printf("Failed to remove contributor: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove contributor"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func ListContributors(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.First(&project, "id = ?", ctx.Param("project_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project does not exist"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		}
		return
	}

	contributors, err := contributorUsernames(project.ID)

	if err != nil {
		log.Printf("Failed to retrieve contributors: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve contributors"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"contributors": contributors})
}
