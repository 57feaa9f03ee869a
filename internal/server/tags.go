package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ctfarena/backend/pkg/models"
)

func (s *Server) listTags(c *gin.Context) {
	tags, err := s.interp.ListTags(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (s *Server) createTag(c *gin.Context) {
	var payload models.TagCreate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	tag, err := s.interp.CreateTag(c.Request.Context(), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (s *Server) updateTag(c *gin.Context) {
	var payload models.TagUpdate
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	tag, err := s.interp.UpdateTag(c.Request.Context(), c.Param("id"), payload)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if tag == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Tag not found"})
		return
	}
	c.JSON(http.StatusOK, tag)
}

func (s *Server) deleteTag(c *gin.Context) {
	if err := s.interp.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
