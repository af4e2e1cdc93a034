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

type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	ProjectType string `json:"project_type" binding:"required,oneof=back-end front-end iOS Android web mobile data ai iot"`
}

type UpdateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ProjectType string  `json:"project_type" binding:"omitempty,oneof=back-end front-end iOS Android web mobile data ai iot"`
}

func projectResponse(project *models.Project) types.ProjectResponse {
	return types.ProjectResponse{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		ProjectType: project.ProjectType,
		Creator:     project.Creator.Username,
		CreatedAt:   project.CreatedAt,
	}
}

func issueResponse(issue *models.Issue) types.IssueResponse {
	var assignedTo *string

	if issue.AssignedTo != nil {
		username := issue.AssignedTo.Username
		assignedTo = &username
	}

	return types.IssueResponse{
		ID:          issue.ID,
		Name:        issue.Name,
		Description: issue.Description,
		Creator:     issue.Creator.Username,
		AssignedTo:  assignedTo,
		Status:      issue.Status,
		Priority:    issue.Priority,
		Tag:         issue.Tag,
		CreatedAt:   issue.CreatedAt,
	}
}

// CreateProject creates the project and the creator's own membership row in
// one transaction; a project must never exist without its creator-membership.
func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request"})
		return
	}

	project := models.Project{
		Name:        body.Name,
		Description: body.Description,
		ProjectType: body.ProjectType,
		CreatorID:   userID,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		membership := models.ProjectContributor{
			ProjectID:     project.ID,
			ContributorID: userID,
		}

		return tx.Create(&membership).Error
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create project"})
		return
	}

	if err := db.DB.Preload("Creator").First(&project, project.ID).Error; err != nil {
		log.Printf("Failed to reload project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, projectResponse(&project))
}

func ListProjects(ctx *gin.Context) {
	if _, err := utils.GetCurrentUserID(ctx); err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	page, pageSize := utils.PageParams(ctx)

	var count int64

	if err := db.DB.Model(&models.Project{}).Count(&count).Error; err != nil {
		log.Printf("Failed to count projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve projects"})
		return
	}

	var projects []models.Project

	if err := db.DB.Preload("Creator").Scopes(utils.Paginate(page, pageSize)).Find(&projects).Error; err != nil {
		log.Printf("Failed to retrieve projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve projects"})
		return
	}

	response := make([]types.ProjectResponse, 0, len(projects))

	for i := range projects {
		response = append(response, projectResponse(&projects[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"count":     count,
		"page":      page,
		"page_size": pageSize,
		"projects":  response,
	})
}

func GetProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.Preload("Creator").First(&project, "id = ?", ctx.Param("project_id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Project does not exist"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		}
		return
	}

	if !permissions.CanReadProject(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You are not a contributor to this project"})
		return
	}

	contributors, err := contributorUsernames(project.ID)

	if err != nil {
		log.Printf("Failed to retrieve contributors: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		return
	}

	page, pageSize := utils.PageParams(ctx)

	var issueCount int64

	if err := db.DB.Model(&models.Issue{}).Where("project_id = ?", project.ID).Count(&issueCount).Error; err != nil {
		log.Printf("Failed to count issues: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		return
	}

	var issues []models.Issue

	err = db.DB.Preload("Creator").Preload("AssignedTo").
		Where("project_id = ?", project.ID).
		Scopes(utils.Paginate(page, pageSize)).
		Find(&issues).Error

	if err != nil {
		log.Printf("Failed to retrieve issues: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to retrieve project"})
		return
	}

	issueSummaries := make([]types.IssueResponse, 0, len(issues))

	for i := range issues {
		issueSummaries = append(issueSummaries, issueResponse(&issues[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{
		"project_details": types.ProjectDetailResponse{
			ID:           project.ID,
			Name:         project.Name,
			Description:  project.Description,
			ProjectType:  project.ProjectType,
			Creator:      project.Creator.Username,
			Contributors: contributors,
			CreatedAt:    project.CreatedAt,
		},
		"project_issues": issueSummaries,
		"count":          issueCount,
		"page":           page,
		"page_size":      pageSize,
	})
}

func UpdateProject(ctx *gin.Context) {
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

	if !permissions.CanWriteProject(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to update this project"})
		return
	}

	var body UpdateProjectRequest

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

	if body.ProjectType != "" {
		updates["project_type"] = body.ProjectType
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"message": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update project"})
		return
	}

	if err := db.DB.Preload("Creator").First(&project, project.ID).Error; err != nil {
		log.Printf("Failed to reload project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, projectResponse(&project))
}

// DeleteProject removes the project together with its memberships, issues
// and those issues' comments, all in one transaction.
func DeleteProject(ctx *gin.Context) {
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

	if !permissions.CanWriteProject(userID, &project) {
		ctx.JSON(http.StatusForbidden, gin.H{"message": "You do not have permission to delete this project"})
		return
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		projectIssues := tx.Model(&models.Issue{}).Select("id").Where("project_id = ?", project.ID)

		if err := tx.Unscoped().Where("issue_id IN (?)", projectIssues).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.Issue{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("project_id = ?", project.ID).Delete(&models.ProjectContributor{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(&project).Error
	})

	if err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}
