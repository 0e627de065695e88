package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceLifecycle(t *testing.T) {
	app := setupTestApp(t)
	token, userID := registerUser(t, app, "alice@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", token, map[string]interface{}{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, status)
	wsID := asID(data(t, body)["ID"])
	assert.Equal(t, userID, asID(data(t, body)["owner_id"]))

	// Creation seeds the four canonical roles
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%d/roles", wsID), token, nil)
	require.Equal(t, http.StatusOK, status)
	roles := dataList(t, body)
	require.Len(t, roles, 4)

	names := map[string]bool{}
	for _, r := range roles {
		names[r.(map[string]interface{})["name"].(string)] = true
	}
	assert.True(t, names["Owner"] && names["Admin"] && names["Editor"] && names["Viewer"])

	// The creator is enrolled as a member
	status, body = doJSON(t, app, http.MethodGet, "/api/v1/workspaces/", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, body), 1)

	// Duplicate name for the same owner is a conflict
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", token, map[string]interface{}{
		"name": "Acme",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Deleting the workspace frees its name
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%d", wsID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", token, map[string]interface{}{
		"name": "Acme",
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestWorkspaceAccessControl(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, _ := registerUser(t, app, "bob@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", aliceToken, map[string]interface{}{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, status)
	wsID := asID(data(t, body)["ID"])

	// Non-members cannot see the workspace
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%d", wsID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Non-owners cannot rename or delete it
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d", wsID), bobToken, map[string]interface{}{
		"name": "Stolen",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%d", wsID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestMembershipFlow(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, aliceID := registerUser(t, app, "alice@example.com")
	bobToken, bobID := registerUser(t, app, "bob@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", aliceToken, map[string]interface{}{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, status)
	wsID := asID(data(t, body)["ID"])

	// Find the Viewer and Editor role IDs
	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%d/roles", wsID), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	roleIDs := map[string]uint{}
	for _, r := range dataList(t, body) {
		role := r.(map[string]interface{})
		roleIDs[role["name"].(string)] = asID(role["ID"])
	}

	// Alice invites Bob as Viewer
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/workspaces/%d/members", wsID), aliceToken, map[string]interface{}{
		"user_id": bobID,
		"role_id": roleIDs["Viewer"],
	})
	require.Equal(t, http.StatusCreated, status)

	// Re-inviting is a conflict
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/workspaces/%d/members", wsID), aliceToken, map[string]interface{}{
		"user_id": bobID,
		"role_id": roleIDs["Viewer"],
	})
	assert.Equal(t, http.StatusConflict, status)

	// Viewers cannot create documents in the workspace
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/documents/", bobToken, map[string]interface{}{
		"title":        "Draft",
		"workspace_id": wsID,
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Viewers cannot manage members either
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%d/members/%d", wsID, aliceID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Alice promotes Bob to Editor; creation now succeeds but deletion
	// stays out of reach
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/members/%d", wsID, bobID), aliceToken, map[string]interface{}{
		"role_id": roleIDs["Editor"],
	})
	require.Equal(t, http.StatusOK, status)

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/documents/", bobToken, map[string]interface{}{
		"title":        "Draft",
		"workspace_id": wsID,
	})
	require.Equal(t, http.StatusCreated, status)
	docID := asID(data(t, body)["ID"])

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// The creator's membership is locked
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/members/%d", wsID, aliceID), aliceToken, map[string]interface{}{
		"role_id": roleIDs["Viewer"],
	})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%d/members/%d", wsID, aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Removing Bob works, and his slot is free for a later re-invite
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/workspaces/%d/members/%d", wsID, bobID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/workspaces/%d/members", wsID), aliceToken, map[string]interface{}{
		"user_id": bobID,
		"role_id": roleIDs["Viewer"],
	})
	assert.Equal(t, http.StatusCreated, status)
}

func TestRoleUpdate(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, _ := registerUser(t, app, "bob@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", aliceToken, map[string]interface{}{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, status)
	wsID := asID(data(t, body)["ID"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/workspaces/%d/roles", wsID), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	var viewerID, editorID uint
	for _, r := range dataList(t, body) {
		role := r.(map[string]interface{})
		switch role["name"].(string) {
		case "Viewer":
			viewerID = asID(role["ID"])
		case "Editor":
			editorID = asID(role["ID"])
		}
	}

	// Non-owners cannot touch roles
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, viewerID), bobToken, map[string]interface{}{
		"name": "Guest",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// An empty update is rejected
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, viewerID), aliceToken, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	// Renaming onto an existing role name is a conflict
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, viewerID), aliceToken, map[string]interface{}{
		"name": "Editor",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Rename plus default toggle in one request
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, viewerID), aliceToken, map[string]interface{}{
		"name":       "Guest",
		"is_default": true,
	})
	require.Equal(t, http.StatusOK, status)
	updated := data(t, body)
	assert.Equal(t, "Guest", updated["name"])
	assert.Equal(t, true, updated["is_default"])

	// Toggling the flag back works on its own
	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, viewerID), aliceToken, map[string]interface{}{
		"is_default": false,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, data(t, body)["is_default"])

	// Unknown permission tokens are rejected at the boundary
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/workspaces/%d/roles/%d", wsID, editorID), aliceToken, map[string]interface{}{
		"permissions": []string{"rule_the_world"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
}
