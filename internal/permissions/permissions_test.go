package permissions_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/softdesk-dev/softdesk/internal/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fixture struct {
	creator     models.User
	contributor models.User
	outsider    models.User
	project     models.Project
	issue       models.Issue
	comment     models.Comment
}

func setupFixture(t *testing.T) fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))

	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	db.DB = testDB
	require.NoError(t, db.MigrateDatabase())

	t.Cleanup(func() {
		sqlDB, err := testDB.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	var f fixture

	newUser := func(username string) models.User {
		user := models.User{
			Username:     username,
			Email:        username + "@example.com",
			PasswordHash: "x",
			DateOfBirth:  time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, db.DB.Create(&user).Error)
		return user
	}

	f.creator = newUser("creator")
	f.contributor = newUser("contributor")
	f.outsider = newUser("outsider")

	f.project = models.Project{
		Name:        "fixture",
		Description: "desc",
		ProjectType: models.ProjectTypeWeb,
		CreatorID:   f.creator.ID,
	}
	require.NoError(t, db.DB.Create(&f.project).Error)

	for _, user := range []models.User{f.creator, f.contributor} {
		require.NoError(t, db.DB.Create(&models.ProjectContributor{
			ProjectID:     f.project.ID,
			ContributorID: user.ID,
		}).Error)
	}

	f.issue = models.Issue{
		ProjectID:   f.project.ID,
		CreatorID:   f.contributor.ID,
		Name:        "issue",
		Description: "desc",
		Tag:         models.IssueTagBug,
		Priority:    models.IssuePriorityLow,
		Status:      models.IssueStatusToDo,
	}
	require.NoError(t, db.DB.Create(&f.issue).Error)
	f.issue.Project = f.project

	f.comment = models.Comment{
		IssueID:   f.issue.ID,
		CreatorID: f.contributor.ID,
		Comment:   "comment",
	}
	require.NoError(t, db.DB.Create(&f.comment).Error)
	f.comment.Issue = f.issue

	return f
}

func TestIsContributor(t *testing.T) {
	f := setupFixture(t)

	assert.True(t, permissions.IsContributor(f.creator.ID, f.project.ID))
	assert.True(t, permissions.IsContributor(f.contributor.ID, f.project.ID))
	assert.False(t, permissions.IsContributor(f.outsider.ID, f.project.ID))
}

func TestProjectPermissions(t *testing.T) {
	f := setupFixture(t)

	assert.True(t, permissions.IsProjectCreator(f.creator.ID, &f.project))
	assert.False(t, permissions.IsProjectCreator(f.contributor.ID, &f.project))

	assert.True(t, permissions.CanReadProject(f.contributor.ID, &f.project))
	assert.False(t, permissions.CanReadProject(f.outsider.ID, &f.project))

	assert.True(t, permissions.CanWriteProject(f.creator.ID, &f.project))
	assert.False(t, permissions.CanWriteProject(f.contributor.ID, &f.project))

	assert.True(t, permissions.CanManageContributors(f.creator.ID, &f.project))
	assert.False(t, permissions.CanManageContributors(f.contributor.ID, &f.project))
}

func TestIssuePermissions(t *testing.T) {
	f := setupFixture(t)

	assert.True(t, permissions.CanCreateIssue(f.contributor.ID, &f.project))
	assert.False(t, permissions.CanCreateIssue(f.outsider.ID, &f.project))

	assert.True(t, permissions.CanReadIssue(f.creator.ID, &f.issue))
	assert.False(t, permissions.CanReadIssue(f.outsider.ID, &f.issue))

	// Issue creator and project creator may write; other contributors may not.
	assert.True(t, permissions.CanWriteIssue(f.contributor.ID, &f.issue))
	assert.True(t, permissions.CanWriteIssue(f.creator.ID, &f.issue))
	assert.False(t, permissions.CanWriteIssue(f.outsider.ID, &f.issue))

	assert.True(t, permissions.CanAssignIssue(f.contributor.ID, f.project.ID))
	assert.False(t, permissions.CanAssignIssue(f.outsider.ID, f.project.ID))
}

func TestCommentPermissions(t *testing.T) {
	f := setupFixture(t)

	assert.True(t, permissions.CanCreateComment(f.contributor.ID, &f.issue))
	assert.False(t, permissions.CanCreateComment(f.outsider.ID, &f.issue))

	assert.True(t, permissions.CanWriteComment(f.contributor.ID, &f.comment))
	assert.True(t, permissions.CanWriteComment(f.creator.ID, &f.comment))
	assert.False(t, permissions.CanWriteComment(f.outsider.ID, &f.comment))
}
