package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/internal/orchestrator"
	"github.com/ctfarena/backend/pkg/models"
)

// listExercises returns the global challenge library (admin only)
func (s *Server) listExercises(c *gin.Context) {
	exercises, err := s.interp.ListExercises(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// getConnectionInfo returns the connection details of an exercise container
func (s *Server) getConnectionInfo(c *gin.Context) {
	container, err := s.interp.GetContainerByExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if container == nil || !container.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"detail": "The infrastructure for this challenge is not active"})
		return
	}
	c.JSON(http.StatusOK, models.ConnectionInfo{
		Connection: container.Connection,
		Port:       container.Port,
	})
}

// getMySolves returns the submission history of the caller
func (s *Server) getMySolves(c *gin.Context) {
	claims := auth.Identity(c)
	solves, err := s.interp.GetUserSolves(c.Request.Context(), claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, solves)
}

// submitFlag is the central submission validation point. The competition
// must exist and be inside its time window, and the exercise must be
// linked to it, before the flag is forwarded for final validation.
func (s *Server) submitFlag(c *gin.Context) {
	claims := auth.Identity(c)

	var payload models.SolveSubmit
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ctx := c.Request.Context()

	comp, err := s.interp.GetCompetition(ctx, payload.CompetitionsID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if comp == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Competition not found"})
		return
	}

	if comp.StartDate.IsZero() || comp.EndDate.IsZero() {
		s.logger.Error("competition has unparsable dates",
			zap.String("competition_id", payload.CompetitionsID))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal error processing competition dates"})
		return
	}

	now := time.Now().UTC()
	if now.Before(comp.StartDate.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "The competition has not started yet"})
		return
	}
	if now.After(comp.EndDate.Time) {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "The competition has already ended"})
		return
	}

	compExercises, err := s.interp.GetCompetitionExercises(ctx, payload.CompetitionsID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	linked := false
	for _, ex := range compExercises {
		if ex.ID == payload.ExercisesID {
			linked = true
			break
		}
	}
	if !linked {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "This exercise does not belong to this competition"})
		return
	}

	s.logger.Info("submission validated, forwarding to interpreter",
		zap.String("username", claims.Username),
		zap.String("exercise_id", payload.ExercisesID),
	)
	result, err := s.interp.SubmitFlag(ctx, payload, claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// createExercise creates a challenge (admin only)
func (s *Server) createExercise(c *gin.Context) {
	var payload models.ExerciseCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	ex, err := s.interp.CreateExercise(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ex)
}

// getExerciseAdmin returns the full record including the flag (admin only)
func (s *Server) getExerciseAdmin(c *gin.Context) {
	ex, err := s.interp.GetExercise(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if ex == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Exercise not found"})
		return
	}
	c.JSON(http.StatusOK, ex)
}

func (s *Server) getExerciseCompetitions(c *gin.Context) {
	comps, err := s.interp.GetExerciseCompetitions(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comps)
}

func (s *Server) linkExerciseToCompetition(c *gin.Context) {
	body, err := s.interp.LinkExerciseToCompetition(c.Request.Context(), c.Param("id"), c.Param("compID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeRaw(c, body)
}

func (s *Server) unlinkExerciseFromCompetition(c *gin.Context) {
	body, err := s.interp.UnlinkExerciseFromCompetition(c.Request.Context(), c.Param("id"), c.Param("compID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeRaw(c, body)
}

func (s *Server) linkExerciseToTag(c *gin.Context) {
	body, err := s.interp.LinkExerciseToTag(c.Request.Context(), c.Param("id"), c.Param("tagID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeRaw(c, body)
}

func (s *Server) unlinkExerciseFromTag(c *gin.Context) {
	body, err := s.interp.UnlinkExerciseFromTag(c.Request.Context(), c.Param("id"), c.Param("tagID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.writeRaw(c, body)
}

// updateExercise applies partial changes (admin only)
func (s *Server) updateExercise(c *gin.Context) {
	var payload models.ExerciseUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	ex, err := s.interp.UpdateExercise(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if ex == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Exercise not found"})
		return
	}
	c.JSON(http.StatusOK, ex)
}

// deleteExercise removes a challenge (admin only)
func (s *Server) deleteExercise(c *gin.Context) {
	if err := s.interp.DeleteExercise(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// deployExercise triggers the orchestrator to bring up the exercise
// container and registers it with the interpreter (admin only)
func (s *Server) deployExercise(c *gin.Context) {
	exID := c.Param("id")

	var payload models.DeployRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	ctx := c.Request.Context()

	exercise, err := s.interp.GetExercise(ctx, exID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if exercise == nil || exercise.DockerImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Exercise has no docker image configured"})
		return
	}

	s.logger.Info("requesting deploy from orchestrator", zap.String("exercise", exercise.Name))
	started, err := s.orch.StartContainer(ctx, orchestrator.StartRequest{
		ImageLink:    exercise.DockerImage,
		TimeAlive:    payload.TimeAlive,
		ExerciseName: exercise.Name,
		CallbackURL:  s.cfg.CallbackURL,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	container, err := s.interp.RegisterContainer(ctx, models.ContainerRegistration{
		DockerID:   started.ContainerID,
		ImageTag:   exercise.DockerImage,
		Port:       started.HostPort,
		Connection: started.ServiceURL,
	}, exID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, container)
}
