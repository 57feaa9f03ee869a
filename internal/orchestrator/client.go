// Package orchestrator provides the client for the orchestrator service,
// which provisions and tears down exercise containers.
package orchestrator

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/downstream"
	"github.com/ctfarena/backend/pkg/apierrors"
)

// StartRequest asks the orchestrator to start an exercise container
type StartRequest struct {
	ImageLink    string `json:"image_link"`
	TimeAlive    int    `json:"time_alive"`
	ExerciseName string `json:"exercise_name"`
	CallbackURL  string `json:"callback_url"`
}

// StartResponse describes the container the orchestrator brought up
type StartResponse struct {
	ContainerID string `json:"container_id"`
	HostPort    int    `json:"host_port"`
	ServiceURL  string `json:"service_url"`
}

// Client talks to the orchestrator service
type Client struct {
	logger *zap.Logger
	ds     *downstream.Client
}

// NewClient creates an orchestrator client
func NewClient(logger *zap.Logger, ds *downstream.Client) *Client {
	return &Client{logger: logger, ds: ds}
}

// StartContainer provisions a container and returns its connection details
func (c *Client) StartContainer(ctx context.Context, req StartRequest) (*StartResponse, error) {
	var resp StartResponse
	found, err := c.ds.Do(ctx, http.MethodPost, "/containers/start", nil, req, &resp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apierrors.BadGateway("orchestrator returned no container")
	}
	c.logger.Info("container started",
		zap.String("container_id", resp.ContainerID),
		zap.Int("host_port", resp.HostPort),
	)
	return &resp, nil
}

// StopContainer tears down a container by its docker id
func (c *Client) StopContainer(ctx context.Context, containerID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/containers/"+containerID, nil, nil, nil)
	return err
}
