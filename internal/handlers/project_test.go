package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/softdesk-dev/softdesk/db"
	"github.com/softdesk-dev/softdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProject(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "alice")

	w := performRequest(t, r, http.MethodPost, "/api/project", token, map[string]interface{}{
		"name":         "Foo",
		"description":  "desc",
		"project_type": "web",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Foo", body["name"])
	assert.Equal(t, "alice", body["creator"])

	// The creator's membership row is created atomically with the project.
	assert.EqualValues(t, 1, countRows(t, &models.ProjectContributor{}, "contributor_id = ?", user.ID))
}

func TestCreateProjectInvalidType(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "alice")

	w := performRequest(t, r, http.MethodPost, "/api/project", token, map[string]interface{}{
		"name":         "Foo",
		"description":  "desc",
		"project_type": "blockchain",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.EqualValues(t, 0, countRows(t, &models.Project{}, "name = ?", "Foo"))
}

func TestCreateProjectMissingFields(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "alice")

	w := performRequest(t, r, http.MethodPost, "/api/project", token, map[string]interface{}{
		"name": "Foo",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListProjectsPagination(t *testing.T) {
	r := setupTest(t)
	user, token := createUser(t, "alice")

	for i := 0; i < 7; i++ {
		createProject(t, user, fmt.Sprintf("project-%d", i))
	}

	w := performRequest(t, r, http.MethodGet, "/api/project", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 7, body["count"])
	assert.EqualValues(t, 1, body["page"])
	assert.EqualValues(t, 5, body["page_size"])
	assert.Len(t, body["projects"], 5)

	w = performRequest(t, r, http.MethodGet, "/api/project?page=2", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["projects"], 2)

	w = performRequest(t, r, http.MethodGet, "/api/project?page_size=100", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 50, decodeBody(t, w)["page_size"])
}

func TestListProjectsIncludesOtherUsersProjects(t *testing.T) {
	r := setupTest(t)
	alice, _ := createUser(t, "alice")
	_, bobToken := createUser(t, "bob")

	createProject(t, alice, "Foo")

	w := performRequest(t, r, http.MethodGet, "/api/project", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])
}

func TestGetProject(t *testing.T) {
	r := setupTest(t)
	alice, token := createUser(t, "alice")
	bob, _ := createUser(t, "bob")

	project := createProject(t, alice, "Foo")
	addContributor(t, project, bob)
	createIssue(t, project, alice, "bug one")
	createIssue(t, project, bob, "bug two")

	w := performRequest(t, r, http.MethodGet, fmt.Sprintf("/api/project/%d", project.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	details := body["project_details"].(map[string]interface{})
	assert.Equal(t, "Foo", details["name"])
	assert.Equal(t, "alice", details["creator"])
	assert.ElementsMatch(t, []interface{}{"alice", "bob"}, details["contributors"])
	assert.Len(t, body["project_issues"], 2)
	assert.EqualValues(t, 2, body["count"])
}

func TestGetProjectNotFound(t *testing.T) {
	r := setupTest(t)
	_, token := createUser(t, "alice")

	w := performRequest(t, r, http.MethodGet, "/api/project/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetProjectAsNonContributor(t *testing.T) {
	r := setupTest(t)
	alice, _ := createUser(t, "alice")
	_, bobToken := createUser(t, "bob")

	project := createProject(t, alice, "Foo")

	w := performRequest(t, r, http.MethodGet, fmt.Sprintf("/api/project/%d", project.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProject(t *testing.T) {
	r := setupTest(t)
	alice, token := createUser(t, "alice")
	project := createProject(t, alice, "Foo")

	w := performRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/project/%d", project.ID), token, map[string]interface{}{
		"name": "Bar",
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Bar", body["name"])
	// Partial update leaves the other fields alone.
	assert.Equal(t, "web", body["project_type"])
}

func TestUpdateProjectAsContributorForbidden(t *testing.T) {
	r := setupTest(t)
	alice, _ := createUser(t, "alice")
	bob, bobToken := createUser(t, "bob")

	project := createProject(t, alice, "Foo")
	addContributor(t, project, bob)

	w := performRequest(t, r, http.MethodPatch, fmt.Sprintf("/api/project/%d", project.ID), bobToken, map[string]interface{}{
		"name": "Hijacked",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Project
	require.NoError(t, db.DB.First(&reloaded, project.ID).Error)
	assert.Equal(t, "Foo", reloaded.Name)
}

func TestDeleteProjectAsContributorForbidden(t *testing.T) {
	r := setupTest(t)
	alice, _ := createUser(t, "alice")
	bob, bobToken := createUser(t, "bob")

	project := createProject(t, alice, "Foo")
	addContributor(t, project, bob)

	w := performRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/project/%d", project.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.EqualValues(t, 1, countRows(t, &models.Project{}, "id = ?", project.ID))
}

func TestDeleteProjectCascades(t *testing.T) {
	r := setupTest(t)
	alice, token := createUser(t, "alice")
	bob, _ := createUser(t, "bob")

	project := createProject(t, alice, "Foo")
	addContributor(t, project, bob)
	issue := createIssue(t, project, bob, "bug")
	createComment(t, issue, alice, "first")
	createComment(t, issue, bob, "second")

	w := performRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/project/%d", project.ID), token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.EqualValues(t, 0, countRows(t, &models.Project{}, "id = ?", project.ID))
	assert.EqualValues(t, 0, countRows(t, &models.ProjectContributor{}, "project_id = ?", project.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Issue{}, "project_id = ?", project.ID))
	assert.EqualValues(t, 0, countRows(t, &models.Comment{}, "issue_id = ?", issue.ID))
}
