package server_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ctfarena/backend/pkg/models"
)

// scoreboardInterpStub serves one competition whose only participant is
// student-1
func scoreboardInterpStub() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /competitions/comp-1/participants", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"id": "student-1", "username": "alice"},
		})
	})
	mux.HandleFunc("GET /scoreboard/comp-1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"user_id": "student-1", "username": "alice", "score": 300, "rank": 1},
		})
	})
	mux.HandleFunc("GET /scoreboard/global", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{"user_id": "student-1", "username": "alice", "score": 1200, "rank": 1},
			{"user_id": "student-2", "username": "bob", "score": 900, "rank": 2},
		})
	})
	return mux
}

func TestGlobalScoreboardVisibleToStudents(t *testing.T) {
	g := newGateway(t, scoreboardInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/scoreboard/global", studentToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []models.ScoreboardEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "alice", entries[0].Username)
}

func TestCompetitionScoreboardEnrolledStudent(t *testing.T) {
	g := newGateway(t, scoreboardInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/scoreboard/comp-1", studentToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestCompetitionScoreboardUnenrolledStudentDenied(t *testing.T) {
	g := newGateway(t, scoreboardInterpStub(), nil)

	bob := token(t, "student-2", "bob", "student")
	w := g.request(t, http.MethodGet, "/scoreboard/comp-1", bob, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "enrolled")
}

func TestCompetitionScoreboardAdminSkipsEnrollmentCheck(t *testing.T) {
	g := newGateway(t, scoreboardInterpStub(), nil)

	w := g.request(t, http.MethodGet, "/scoreboard/comp-1", adminToken(t), nil)
	require.Equal(t, http.StatusOK, w.Code)
}
