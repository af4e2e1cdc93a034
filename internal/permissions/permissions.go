// Package permissions is the single place authorization rules live. Every
// handler asks these functions before a mutation or a restricted read, so
// the creator/contributor rules cannot drift between resources.
//
// Callers are expected to have resolved the target entity first (404 before
// 403), and to run payload validation only after authorization passes.
package permissions

import (
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
)

// IsContributor reports whether a membership row exists for the
// (project, user) pair.
func IsContributor(userID uint, projectID uint) bool {
	var count int64

	db.DB.Model(&models.ProjectContributor{}).
		Where("project_id = ? AND contributor_id = ?", projectID, userID).
		Count(&count)

	return count > 0
}

func IsProjectCreator(userID uint, project *models.Project) bool {
	return project.CreatorID == userID
}

func CanReadProject(userID uint, project *models.Project) bool {
	return IsContributor(userID, project.ID)
}

// CanWriteProject covers both update and delete.
func CanWriteProject(userID uint, project *models.Project) bool {
	return IsProjectCreator(userID, project)
}

// CanManageContributors gates adding and removing members. Removal of the
// creator's own membership row is refused separately by the handler, for
// any actor.
func CanManageContributors(userID uint, project *models.Project) bool {
	return IsProjectCreator(userID, project)
}

func CanCreateIssue(userID uint, project *models.Project) bool {
	return IsContributor(userID, project.ID)
}

// CanReadIssue requires membership on the issue's project.
func CanReadIssue(userID uint, issue *models.Issue) bool {
	return IsContributor(userID, issue.ProjectID)
}

// CanWriteIssue allows the issue's creator and the project's creator.
// issue.Project must be loaded.
func CanWriteIssue(userID uint, issue *models.Issue) bool {
	return issue.CreatorID == userID || issue.Project.CreatorID == userID
}

// CanAssignIssue reports whether the candidate assignee may be set on an
// issue of the project; assignment to a non-contributor is a validation
// error, never silently dropped.
func CanAssignIssue(assigneeID uint, projectID uint) bool {
	return IsContributor(assigneeID, projectID)
}

func CanCreateComment(userID uint, issue *models.Issue) bool {
	return IsContributor(userID, issue.ProjectID)
}

// CanWriteComment allows the comment's creator and the creator of the
// project the comment's issue belongs to. comment.Issue.Project must be
// loaded. Reads of a comment are gated by the same rule.
func CanWriteComment(userID uint, comment *models.Comment) bool {
	return comment.CreatorID == userID || comment.Issue.Project.CreatorID == userID
}
