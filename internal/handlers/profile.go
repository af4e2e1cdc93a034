package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/softdesk-dev/softdesk/internal/types"
	"github.com/softdesk-dev/softdesk/internal/utils"
	"gorm.io/gorm"
)

type UpdateProfileRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email" binding:"omitempty,email"`
	DateOfBirth     string `json:"date_of_birth"`
	CanBeContacted  *bool  `json:"can_be_contacted"`
	CanDataBeShared *bool  `json:"can_data_be_shared"`
}

func userResponse(user *models.User) types.UserResponse {
	return types.UserResponse{
		ID:              user.ID,
		Username:        user.Username,
		Email:           user.Email,
		DateOfBirth:     user.DateOfBirth.Format(dateOfBirthLayout),
		CanBeContacted:  user.CanBeContacted,
		CanDataBeShared: user.CanDataBeShared,
	}
}

func GetProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(&user)})
}

func UpdateProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Username != "" {
		newUsername := strings.TrimSpace(body.Username)

		if newUsername != user.Username {
			var existingUser models.User
			err := db.DB.Where("username = ? AND id != ?", newUsername, user.ID).First(&existingUser).Error
			if err == nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"message": "Username already exists"})
				return
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("Database error when checking existing username: %v", err)
				ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
				return
			}
		}

		updates["username"] = newUsername
	}

	if body.Email != "" {
		updates["email"] = strings.ToLower(strings.TrimSpace(body.Email))
	}

	if body.DateOfBirth != "" {
		dateOfBirth, err := time.Parse(dateOfBirthLayout, body.DateOfBirth)

		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "date_of_birth must be in YYYY-MM-DD format"})
			return
		}

		if !isOldEnough(dateOfBirth, minimumAge) {
			ctx.JSON(http.StatusBadRequest, gin.H{"message": "You must be at least 16 years old."})
			return
		}

		updates["date_of_birth"] = dateOfBirth
	}

	if body.CanBeContacted != nil {
		updates["can_be_contacted"] = *body.CanBeContacted
	}

	if body.CanDataBeShared != nil {
		updates["can_data_be_shared"] = *body.CanDataBeShared
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Failed to update user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := db.DB.First(&user, user.ID).Error; err != nil {
		log.Printf("Failed to refresh user data: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User profile updated successfully",
		"user":    userResponse(&user),
	})
}

// DeleteProfile removes the account and everything hanging off it: owned
// projects (with their memberships, issues and comments), authored issues
// and comments on other projects, membership rows, and assignee references.
func DeleteProfile(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var projectIDs []uint

		if err := tx.Model(&models.Project{}).Where("creator_id = ?", user.ID).Pluck("id", &projectIDs).Error; err != nil {
			return err
		}

		if len(projectIDs) > 0 {
			ownedIssues := tx.Model(&models.Issue{}).Select("id").Where("project_id IN ?", projectIDs)

			if err := tx.Unscoped().Where("issue_id IN (?)", ownedIssues).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("project_id IN ?", projectIDs).Delete(&models.Issue{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("project_id IN ?", projectIDs).Delete(&models.ProjectContributor{}).Error; err != nil {
				return err
			}
			if err := tx.Unscoped().Where("id IN ?", projectIDs).Delete(&models.Project{}).Error; err != nil {
				return err
			}
		}

		// Issues the user created on other projects go away with their comments.
		authoredIssues := tx.Model(&models.Issue{}).Select("id").Where("creator_id = ?", user.ID)

		if err := tx.Unscoped().Where("issue_id IN (?)", authoredIssues).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("creator_id = ?", user.ID).Delete(&models.Issue{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("creator_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Issue{}).Where("assigned_to_id = ?", user.ID).Update("assigned_to_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("contributor_id = ?", user.ID).Delete(&models.ProjectContributor{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&user).Error
	})

	if err != nil {
		log.Printf("Failed to delete user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
