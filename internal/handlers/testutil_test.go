package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/auth"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/softdesk-dev/softdesk/internal/router"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret-key")
	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}
}

// setupTest points db.DB at a fresh in-memory SQLite database and returns
// the real router. The shared-cache DSN keeps every pooled connection on
// the same database.
func setupTest(t *testing.T) *gin.Engine {
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

	return router.NewRouter()
}

// createUser inserts a user directly and returns it with a valid access token.
func createUser(t *testing.T, username string) (models.User, string) {
	t.Helper()

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:        username,
		Email:           username + "@example.com",
		PasswordHash:    string(passwordHash),
		DateOfBirth:     time.Date(2000, 1, 15, 0, 0, 0, 0, time.UTC),
		CanDataBeShared: true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	token, err := auth.GenerateAccessToken(user.ID, user.Username)
	require.NoError(t, err)

	return user, token
}

// createProject inserts a project plus the creator's membership row.
func createProject(t *testing.T, creator models.User, name string) models.Project {
	t.Helper()

	project := models.Project{
		Name:        name,
		Description: "desc",
		ProjectType: models.ProjectTypeWeb,
		CreatorID:   creator.ID,
	}
	require.NoError(t, db.DB.Create(&project).Error)
	require.NoError(t, db.DB.Create(&models.ProjectContributor{
		ProjectID:     project.ID,
		ContributorID: creator.ID,
	}).Error)

	return project
}

func addContributor(t *testing.T, project models.Project, user models.User) {
	t.Helper()

	require.NoError(t, db.DB.Create(&models.ProjectContributor{
		ProjectID:     project.ID,
		ContributorID: user.ID,
	}).Error)
}

func createIssue(t *testing.T, project models.Project, creator models.User, name string) models.Issue {
	t.Helper()

	issue := models.Issue{
		ProjectID:   project.ID,
		CreatorID:   creator.ID,
		Name:        name,
		Description: "desc",
		Tag:         models.IssueTagBug,
		Priority:    models.IssuePriorityMedium,
		Status:      models.IssueStatusToDo,
	}
	require.NoError(t, db.DB.Create(&issue).Error)

	return issue
}

func createComment(t *testing.T, issue models.Issue, creator models.User, text string) models.Comment {
	t.Helper()

	comment := models.Comment{
		IssueID:   issue.ID,
		CreatorID: creator.ID,
		Comment:   text,
	}
	require.NoError(t, db.DB.Create(&comment).Error)

	return comment
}

// performRequest drives the router with an optional JSON body and bearer token.
func performRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func countRows(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.DB.Unscoped().Model(model).Where(query, args...).Count(&count).Error)

	return count
}
