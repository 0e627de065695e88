package controller_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDocument(t *testing.T, app *fiber.App, token, title string) uint {
	t.Helper()
	status, body := doJSON(t, app, http.MethodPost, "/api/v1/documents/", token, map[string]interface{}{
		"title":   title,
		"content": "some content",
	})
	require.Equal(t, http.StatusCreated, status, "create document: %v", body)
	return asID(data(t, body)["ID"])
}

func TestDocumentCRUD(t *testing.T) {
	app := setupTestApp(t)
	token, userID := registerUser(t, app, "alice@example.com")

	docID := createDocument(t, app, token, "Notes")

	status, body := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Notes", data(t, body)["title"])
	assert.Equal(t, userID, asID(data(t, body)["owner_id"]))

	status, body = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", docID), token, map[string]interface{}{
		"content": "updated content",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "updated content", data(t, body)["content"])
	assert.Equal(t, "Notes", data(t, body)["title"])

	// Empty update is rejected
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", docID), token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d", docID), token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDocumentDuplicateTitle(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, _ := registerUser(t, app, "bob@example.com")

	createDocument(t, app, aliceToken, "Notes")

	status, _ := doJSON(t, app, http.MethodPost, "/api/v1/documents/", aliceToken, map[string]interface{}{
		"title": "Notes",
	})
	assert.Equal(t, http.StatusConflict, status)

	// A different owner can reuse the title
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/documents/", bobToken, map[string]interface{}{
		"title": "Notes",
	})
	assert.Equal(t, http.StatusCreated, status)
}

// A missing document reads as not-found even for users who would lack
// access if it existed.
func TestDocumentNotFoundBeforeForbidden(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "alice@example.com")

	status, _ := doJSON(t, app, http.MethodGet, "/api/v1/documents/9999", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCollaboratorAccess(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, bobID := registerUser(t, app, "bob@example.com")
	carolToken, _ := registerUser(t, app, "carol@example.com")

	docID := createDocument(t, app, aliceToken, "Shared Notes")

	// Before being added, Bob sees nothing
	status, _ := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/collaborators", docID), aliceToken, map[string]interface{}{
		"user_id": bobID,
		"role":    "reader",
	})
	require.Equal(t, http.StatusCreated, status)

	// Readers can view but not edit
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, map[string]interface{}{
		"content": "sneaky edit",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// Readers cannot manage collaborators
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/collaborators", docID), bobToken, map[string]interface{}{
		"user_id": bobID,
		"role":    "editor",
	})
	assert.Equal(t, http.StatusForbidden, status)

	// The document shows up in Bob's shared listing
	status, body := doJSON(t, app, http.MethodGet, "/api/v1/documents/shared", bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, dataList(t, body), 1)

	// Upgrade to editor enables editing
	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d/collaborators/%d", docID, bobID), aliceToken, map[string]interface{}{
		"role": "editor",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, map[string]interface{}{
		"content": "legit edit",
	})
	assert.Equal(t, http.StatusOK, status)

	// Carol never had access
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), carolToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Removal revokes access
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d/collaborators/%d", docID, bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestCollaboratorSelfAdd(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, aliceID := registerUser(t, app, "alice@example.com")
	docID := createDocument(t, app, aliceToken, "Notes")

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/collaborators", docID), aliceToken, map[string]interface{}{
		"user_id": aliceID,
		"role":    "editor",
	})
	assert.Equal(t, http.StatusConflict, status)
}

func TestShareLinkFlow(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, _ := registerUser(t, app, "bob@example.com")

	docID := createDocument(t, app, aliceToken, "Notes")

	status, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/share", docID), aliceToken, map[string]interface{}{
		"role":      "reader",
		"ttl_hours": 24,
	})
	require.Equal(t, http.StatusCreated, status)
	token := data(t, body)["token"].(string)
	require.NotEmpty(t, token)

	// Bob redeems the link and becomes a reader
	status, body = doJSON(t, app, http.MethodPost, "/api/v1/share/"+token+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "reader", data(t, body)["role"])

	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusOK, status)

	// Redeeming the same role again is a conflict
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/share/"+token+"/accept", bobToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// The owner cannot redeem their own link
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/share/"+token+"/accept", aliceToken, nil)
	assert.Equal(t, http.StatusConflict, status)

	// Revocation kills the token for everyone else
	status, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/documents/%d/share/%s", docID, token), aliceToken, nil)
	require.Equal(t, http.StatusOK, status)

	carolToken, _ := registerUser(t, app, "carol@example.com")
	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/share/"+token+"/accept", carolToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// A share link on a workspace document must grant real access to someone
// outside the workspace.
func TestShareLinkOnWorkspaceDocument(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	bobToken, _ := registerUser(t, app, "bob@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/workspaces/", aliceToken, map[string]interface{}{
		"name": "Acme",
	})
	require.Equal(t, http.StatusCreated, status)
	wsID := asID(data(t, body)["ID"])

	status, body = doJSON(t, app, http.MethodPost, "/api/v1/documents/", aliceToken, map[string]interface{}{
		"title":        "Plan",
		"workspace_id": wsID,
	})
	require.Equal(t, http.StatusCreated, status)
	docID := asID(data(t, body)["ID"])

	// Bob is neither a member nor a collaborator
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, body = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/share", docID), aliceToken, map[string]interface{}{
		"role": "reader",
	})
	require.Equal(t, http.StatusCreated, status)
	token := data(t, body)["token"].(string)

	status, _ = doJSON(t, app, http.MethodPost, "/api/v1/share/"+token+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, status)

	// The accepted grant actually opens the document, read-only
	status, _ = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/v1/documents/%d", docID), bobToken, map[string]interface{}{
		"content": "defaced",
	})
	assert.Equal(t, http.StatusForbidden, status)
}

func TestShareLinkTTLCap(t *testing.T) {
	app := setupTestApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com")
	docID := createDocument(t, app, aliceToken, "Notes")

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/documents/%d/share", docID), aliceToken, map[string]interface{}{
		"role":      "reader",
		"ttl_hours": 1000,
	})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDocumentSearch(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "alice@example.com")

	createDocument(t, app, token, "Meeting Agenda")
	createDocument(t, app, token, "Shopping List")

	status, body := doJSON(t, app, http.MethodGet, "/api/v1/documents/search?q=agenda", token, nil)
	require.Equal(t, http.StatusOK, status)
	results := dataList(t, body)
	require.Len(t, results, 1)
	assert.Equal(t, "Meeting Agenda", results[0].(map[string]interface{})["title"])

	status, _ = doJSON(t, app, http.MethodGet, "/api/v1/documents/search?q=", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDocumentExport(t *testing.T) {
	app := setupTestApp(t)
	token, _ := registerUser(t, app, "alice@example.com")

	status, body := doJSON(t, app, http.MethodPost, "/api/v1/documents/", token, map[string]interface{}{
		"title":        "Rich",
		"content":      "<ul><li>First</li><li>Second</li></ul>",
		"content_type": "html",
	})
	require.Equal(t, http.StatusCreated, status)
	docID := asID(data(t, body)["ID"])

	status, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/v1/documents/%d/export", docID), token, nil)
	require.Equal(t, http.StatusOK, status)

	elements := data(t, body)["elements"].([]interface{})
	require.Len(t, elements, 2)
	first := elements[0].(map[string]interface{})
	assert.Equal(t, "list-item", first["kind"])
	assert.Equal(t, "unordered", first["list_kind"])
	assert.EqualValues(t, 1, first["position"])
}
