package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/pkg/models"
)

// getAllAttendances returns every attendance record (admin only)
func (s *Server) getAllAttendances(c *gin.Context) {
	claims := auth.Identity(c)
	attendances, err := s.interp.GetAllAttendances(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("global attendance query",
		zap.String("admin_id", claims.UserID),
		zap.Int("count", len(attendances)),
	)
	c.JSON(http.StatusOK, attendances)
}

// getUserAttendance returns a user's history (admin or the user itself)
func (s *Server) getUserAttendance(c *gin.Context) {
	claims := auth.Identity(c)
	targetID := c.Param("id")

	if !claims.IsAdmin() && claims.UserID != targetID {
		s.logger.Warn("denied access to third-party attendance history",
			zap.String("requester_id", claims.UserID),
			zap.String("target_id", targetID),
		)
		c.JSON(http.StatusForbidden, gin.H{"detail": "Access denied to third-party history"})
		return
	}

	attendances, err := s.interp.GetUserAttendance(c.Request.Context(), targetID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendances)
}

// getCompetitionAttendance returns a competition's records (admin only)
func (s *Server) getCompetitionAttendance(c *gin.Context) {
	attendances, err := s.interp.GetCompetitionAttendance(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, attendances)
}

// recordAttendance registers attendance, rejecting duplicates for the same
// competition. Admins may record on behalf of another user.
func (s *Server) recordAttendance(c *gin.Context) {
	claims := auth.Identity(c)

	var payload models.AttendanceCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	targetID := claims.UserID
	if claims.IsAdmin() && payload.UsersID != "" {
		targetID = payload.UsersID
	}

	ctx := c.Request.Context()

	history, err := s.interp.GetUserAttendance(ctx, targetID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	for _, att := range history {
		if att.CompetitionsID == payload.CompetitionsID {
			s.logger.Warn("duplicate attendance attempt",
				zap.String("user_id", targetID),
				zap.String("competition_id", payload.CompetitionsID),
			)
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Attendance already recorded for this user in this competition"})
			return
		}
	}

	result, err := s.interp.RecordAttendance(ctx, payload, targetID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("attendance recorded",
		zap.String("user_id", targetID),
		zap.String("competition_id", payload.CompetitionsID),
	)
	c.JSON(http.StatusCreated, result)
}
