package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listContainers returns every registered container (admin only)
func (s *Server) listContainers(c *gin.Context) {
	containers, err := s.interp.ListContainers(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, containers)
}

// getContainer returns one registration (admin only)
func (s *Server) getContainer(c *gin.Context) {
	container, err := s.interp.GetContainer(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if container == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Container not found"})
		return
	}
	c.JSON(http.StatusOK, container)
}

// removeContainer stops the container via the orchestrator and drops its
// registration from the interpreter (admin only)
func (s *Server) removeContainer(c *gin.Context) {
	ctx := c.Request.Context()
	containerID := c.Param("id")

	container, err := s.interp.GetContainer(ctx, containerID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if container == nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Container not found"})
		return
	}

	if err := s.orch.StopContainer(ctx, container.DockerID); err != nil {
		// The registration is still removed so the platform does not keep
		// advertising a container the orchestrator may have lost already.
		s.logger.Warn("orchestrator stop failed",
			zap.String("docker_id", container.DockerID),
			zap.Error(err),
		)
	}

	if err := s.interp.RemoveContainer(ctx, containerID); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// containerCallbackPayload is what the orchestrator posts on lifecycle
// changes
type containerCallbackPayload struct {
	ContainerID string `json:"container_id" binding:"required"`
	Status      string `json:"status" binding:"required"`
}

// containerCallback handles orchestrator lifecycle notifications. When a
// container expires or dies, its registration is removed so students stop
// seeing stale connection info.
func (s *Server) containerCallback(c *gin.Context) {
	var payload containerCallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	s.logger.Info("orchestrator callback",
		zap.String("container_id", payload.ContainerID),
		zap.String("status", payload.Status),
	)

	if payload.Status != "stopped" && payload.Status != "expired" {
		c.Status(http.StatusNoContent)
		return
	}

	ctx := c.Request.Context()
	containers, err := s.interp.ListContainers(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	for _, container := range containers {
		if container.DockerID == payload.ContainerID {
			if err := s.interp.RemoveContainer(ctx, container.ID); err != nil {
				s.writeError(c, err)
				return
			}
			break
		}
	}
	c.Status(http.StatusNoContent)
}
