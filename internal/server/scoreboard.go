package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
)

// getGlobalScoreboard returns the platform-wide scoreboard, visible to any
// authenticated user
func (s *Server) getGlobalScoreboard(c *gin.Context) {
	entries, err := s.interp.GetGlobalScoreboard(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// getCompetitionScoreboard returns a competition scoreboard. Admins see
// any scoreboard; students only those of competitions they joined.
func (s *Server) getCompetitionScoreboard(c *gin.Context) {
	claims := auth.Identity(c)
	compID := c.Param("compID")
	ctx := c.Request.Context()

	if !claims.IsAdmin() {
		participants, err := s.interp.GetCompetitionParticipants(ctx, compID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		registered := false
		for _, p := range participants {
			if p.ID == claims.UserID {
				registered = true
				break
			}
		}
		if !registered {
			s.logger.Warn("scoreboard access without enrollment",
				zap.String("user_id", claims.UserID),
				zap.String("competition_id", compID),
			)
			c.JSON(http.StatusForbidden, gin.H{"detail": "You must be enrolled in this competition to see the scoreboard"})
			return
		}
	}

	entries, err := s.interp.GetScoreboard(ctx, compID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
