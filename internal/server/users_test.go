package server_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfarena/backend/pkg/models"
)

func usersInterpStub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /auth/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": "student-1", "username": "alice", "role": "student"},
			{"id": "admin-1", "username": "root", "role": "admin"},
		})
	})
	mux.HandleFunc("GET /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		userID := r.URL.Path[len("/auth/profile/"):]
		if userID != "student-1" && userID != "admin-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": userID, "username": "alice", "role": "student",
		})
	})
	mux.HandleFunc("PUT /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id": r.URL.Path[len("/auth/profile/"):], "username": "alice2",
		})
	})
	mux.HandleFunc("DELETE /auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func TestListUsersAdminOnly(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/users", studentToken(t), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = g.request(t, http.MethodGet, "/users", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice")
}

func TestGetMeReturnsOwnProfile(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/users/me", studentToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student-1")
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/users/student-1", studentToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = g.request(t, http.MethodGet, "/users/admin-1", studentToken(t), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = g.request(t, http.MethodGet, "/users/student-1", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserRoleChangeIsAdminOnly(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	role := "admin"
	w := g.request(t, http.MethodPut, "/users/student-1", studentToken(t),
		models.UserUpdate{Role: &role})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "roles")

	w = g.request(t, http.MethodPut, "/users/student-1", adminToken(t),
		models.UserUpdate{Role: &role})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUserOwnProfile(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	username := "alice2"
	w := g.request(t, http.MethodPut, "/users/student-1", studentToken(t),
		models.UserUpdate{Username: &username})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice2")
}

func TestDeleteUserAdminOnly(t *testing.T) {
	g := newGateway(t, usersInterpStub(), nil)

	w := g.request(t, http.MethodDelete, "/users/student-1", studentToken(t), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = g.request(t, http.MethodDelete, "/users/student-1", adminToken(t), nil)
	require.Equal(t, http.StatusNoContent, w.Code)
}
