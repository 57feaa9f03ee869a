package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/pkg/models"
)

func (s *Server) listCompetitions(c *gin.Context) {
	comps, err := s.interp.ListCompetitions(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comps)
}

func (s *Server) getCompetition(c *gin.Context) {
	comp, err := s.interp.GetCompetition(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if comp == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Competition not found"})
		return
	}
	c.JSON(http.StatusOK, comp)
}

func (s *Server) getCompetitionParticipants(c *gin.Context) {
	participants, err := s.interp.GetCompetitionParticipants(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// getCompetitionExercises lists the challenges of a competition. Students
// must be enrolled; admins always pass.
func (s *Server) getCompetitionExercises(c *gin.Context) {
	claims := auth.Identity(c)
	compID := c.Param("id")
	ctx := c.Request.Context()

	if !claims.IsAdmin() {
		participants, err := s.interp.GetCompetitionParticipants(ctx, compID)
		if err != nil {
			s.writeError(c, err)
			return
		}
		enrolled := false
		for _, p := range participants {
			if p.ID == claims.UserID {
				enrolled = true
				break
			}
		}
		if !enrolled {
			c.JSON(http.StatusForbidden, gin.H{"detail": "You must be enrolled in this competition to see its exercises"})
			return
		}
	}

	exercises, err := s.interp.GetCompetitionExercises(ctx, compID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// createCompetition creates a competition (admin only)
func (s *Server) createCompetition(c *gin.Context) {
	var payload models.CompetitionCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if !payload.EndDate.After(payload.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "end_date must be after start_date"})
		return
	}
	comp, err := s.interp.CreateCompetition(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comp)
}

// joinCompetition enrolls the caller using an invite code
func (s *Server) joinCompetition(c *gin.Context) {
	claims := auth.Identity(c)

	var payload models.CompetitionJoin
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	comp, err := s.interp.JoinCompetition(c.Request.Context(), payload, claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comp)
}

func (s *Server) updateCompetition(c *gin.Context) {
	var payload models.CompetitionUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	comp, err := s.interp.UpdateCompetition(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if comp == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Competition not found"})
		return
	}
	c.JSON(http.StatusOK, comp)
}

func (s *Server) deleteCompetition(c *gin.Context) {
	if err := s.interp.DeleteCompetition(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
