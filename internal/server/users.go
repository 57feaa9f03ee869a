package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctfarena/backend/internal/auth"
	"github.com/ctfarena/backend/pkg/models"
)

// listUsers returns every user (admin only)
func (s *Server) listUsers(c *gin.Context) {
	users, err := s.interp.ListUsers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// getMe returns the caller's own profile
func (s *Server) getMe(c *gin.Context) {
	claims := auth.Identity(c)
	user, err := s.interp.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// getUser returns a profile (admin or the user itself)
func (s *Server) getUser(c *gin.Context) {
	claims := auth.Identity(c)
	targetID := c.Param("id")

	if !claims.IsAdmin() && claims.UserID != targetID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Access denied to third-party profile"})
		return
	}

	user, err := s.interp.GetUser(c.Request.Context(), targetID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateUser updates a profile (admin or the user itself; role changes are
// admin only)
func (s *Server) updateUser(c *gin.Context) {
	claims := auth.Identity(c)
	targetID := c.Param("id")

	if !claims.IsAdmin() && claims.UserID != targetID {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Access denied to third-party profile"})
		return
	}

	var payload models.UserUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if payload.Role != nil && !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only administrators can change roles"})
		return
	}

	user, err := s.interp.UpdateUser(c.Request.Context(), targetID, payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser removes a user (admin only)
func (s *Server) deleteUser(c *gin.Context) {
	if err := s.interp.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
