// Package interpreter provides the typed client for the interpreter
// service, which owns all platform data. Every method is a single HTTP
// call; lookups return a nil result without error when the interpreter
// answers 404.
package interpreter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/ctfarena/backend/internal/downstream"
	"github.com/ctfarena/backend/pkg/models"
)

// Client talks to the interpreter service
type Client struct {
	logger *zap.Logger
	ds     *downstream.Client
}

// NewClient creates an interpreter client
func NewClient(logger *zap.Logger, ds *downstream.Client) *Client {
	return &Client{logger: logger, ds: ds}
}

// --- users ---

func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	_, err := c.ds.Do(ctx, http.MethodGet, "/auth/users", nil, nil, &users)
	return users, err
}

func (c *Client) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	found, err := c.ds.Do(ctx, http.MethodGet, "/auth/profile/"+userID, nil, nil, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	found, err := c.ds.Do(ctx, http.MethodGet, "/auth/user/"+url.PathEscape(email), nil, nil, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, userID string, update models.UserUpdate) (*models.User, error) {
	var user models.User
	found, err := c.ds.Do(ctx, http.MethodPut, "/auth/profile/"+userID, nil, update, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/auth/profile/"+userID, nil, nil, nil)
	return err
}

// --- competitions ---

func (c *Client) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	var comps []models.Competition
	_, err := c.ds.Do(ctx, http.MethodGet, "/competitions/", nil, nil, &comps)
	return comps, err
}

func (c *Client) GetCompetition(ctx context.Context, compID string) (*models.Competition, error) {
	var comp models.Competition
	found, err := c.ds.Do(ctx, http.MethodGet, "/competitions/"+compID, nil, nil, &comp)
	if err != nil || !found {
		return nil, err
	}
	return &comp, nil
}

func (c *Client) GetCompetitionParticipants(ctx context.Context, compID string) ([]models.User, error) {
	var users []models.User
	_, err := c.ds.Do(ctx, http.MethodGet, "/competitions/"+compID+"/participants", nil, nil, &users)
	return users, err
}

func (c *Client) GetCompetitionExercises(ctx context.Context, compID string) ([]models.Exercise, error) {
	var exercises []models.Exercise
	_, err := c.ds.Do(ctx, http.MethodGet, "/competitions/"+compID+"/exercises", nil, nil, &exercises)
	return exercises, err
}

func (c *Client) CreateCompetition(ctx context.Context, create models.CompetitionCreate) (*models.Competition, error) {
	var comp models.Competition
	_, err := c.ds.Do(ctx, http.MethodPost, "/competitions/", nil, create, &comp)
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

func (c *Client) JoinCompetition(ctx context.Context, join models.CompetitionJoin, userID string) (*models.Competition, error) {
	query := url.Values{"user_id": {userID}}
	var comp models.Competition
	_, err := c.ds.Do(ctx, http.MethodPost, "/competitions/join", query, join, &comp)
	if err != nil {
		return nil, err
	}
	return &comp, nil
}

func (c *Client) UpdateCompetition(ctx context.Context, compID string, update models.CompetitionUpdate) (*models.Competition, error) {
	var comp models.Competition
	found, err := c.ds.Do(ctx, http.MethodPatch, "/competitions/"+compID, nil, update, &comp)
	if err != nil || !found {
		return nil, err
	}
	return &comp, nil
}

func (c *Client) DeleteCompetition(ctx context.Context, compID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/competitions/"+compID, nil, nil, nil)
	return err
}

// --- exercises ---

func (c *Client) ListExercises(ctx context.Context) ([]models.Exercise, error) {
	var exercises []models.Exercise
	_, err := c.ds.Do(ctx, http.MethodGet, "/exercises/", nil, nil, &exercises)
	return exercises, err
}

// GetExercise returns the full record, flag and docker image included.
// Callers must not hand it to students unfiltered.
func (c *Client) GetExercise(ctx context.Context, exID string) (*models.ExerciseAdmin, error) {
	var ex models.ExerciseAdmin
	found, err := c.ds.Do(ctx, http.MethodGet, "/exercises/"+exID, nil, nil, &ex)
	if err != nil || !found {
		return nil, err
	}
	return &ex, nil
}

func (c *Client) CreateExercise(ctx context.Context, create models.ExerciseCreate) (*models.Exercise, error) {
	var ex models.Exercise
	_, err := c.ds.Do(ctx, http.MethodPost, "/exercises/", nil, create, &ex)
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

func (c *Client) UpdateExercise(ctx context.Context, exID string, update models.ExerciseUpdate) (*models.Exercise, error) {
	var ex models.Exercise
	found, err := c.ds.Do(ctx, http.MethodPatch, "/exercises/"+exID, nil, update, &ex)
	if err != nil || !found {
		return nil, err
	}
	return &ex, nil
}

func (c *Client) DeleteExercise(ctx context.Context, exID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/exercises/"+exID, nil, nil, nil)
	return err
}

// Link and unlink calls return the interpreter's response verbatim so the
// gateway does not have to guess at its shape.

func (c *Client) LinkExerciseToCompetition(ctx context.Context, exID, compID string) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.ds.Do(ctx, http.MethodPost, "/exercises/"+exID+"/competition/"+compID, nil, nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

func (c *Client) UnlinkExerciseFromCompetition(ctx context.Context, exID, compID string) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.ds.Do(ctx, http.MethodDelete, "/exercises/"+exID+"/competition/"+compID, nil, nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

func (c *Client) LinkExerciseToTag(ctx context.Context, exID, tagID string) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.ds.Do(ctx, http.MethodPost, "/exercises/"+exID+"/tags/"+tagID, nil, nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

func (c *Client) UnlinkExerciseFromTag(ctx context.Context, exID, tagID string) (json.RawMessage, error) {
	var out json.RawMessage
	found, err := c.ds.Do(ctx, http.MethodDelete, "/exercises/"+exID+"/tags/"+tagID, nil, nil, &out)
	if err != nil || !found {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetExerciseCompetitions(ctx context.Context, exID string) ([]models.Competition, error) {
	var comps []models.Competition
	_, err := c.ds.Do(ctx, http.MethodGet, "/exercises/"+exID+"/competitions", nil, nil, &comps)
	return comps, err
}

// --- containers ---

func (c *Client) ListContainers(ctx context.Context) ([]models.Container, error) {
	var containers []models.Container
	_, err := c.ds.Do(ctx, http.MethodGet, "/containers/", nil, nil, &containers)
	return containers, err
}

func (c *Client) GetContainer(ctx context.Context, containerID string) (*models.Container, error) {
	var container models.Container
	found, err := c.ds.Do(ctx, http.MethodGet, "/containers/"+containerID, nil, nil, &container)
	if err != nil || !found {
		return nil, err
	}
	return &container, nil
}

func (c *Client) GetContainerByExercise(ctx context.Context, exID string) (*models.Container, error) {
	var container models.Container
	found, err := c.ds.Do(ctx, http.MethodGet, "/containers/exercise/"+exID, nil, nil, &container)
	if err != nil || !found {
		return nil, err
	}
	return &container, nil
}

func (c *Client) RegisterContainer(ctx context.Context, reg models.ContainerRegistration, exID string) (*models.Container, error) {
	query := url.Values{"exercises_id": {exID}}
	var container models.Container
	_, err := c.ds.Do(ctx, http.MethodPost, "/containers/", query, reg, &container)
	if err != nil {
		return nil, err
	}
	return &container, nil
}

func (c *Client) RemoveContainer(ctx context.Context, containerID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/containers/"+containerID, nil, nil, nil)
	return err
}

// --- solves and scoreboard ---

func (c *Client) GetUserSolves(ctx context.Context, userID string) ([]models.Solve, error) {
	var solves []models.Solve
	_, err := c.ds.Do(ctx, http.MethodGet, "/solves/"+userID, nil, nil, &solves)
	return solves, err
}

func (c *Client) SubmitFlag(ctx context.Context, submit models.SolveSubmit, userID string) (*models.SolveResult, error) {
	query := url.Values{"users_id": {userID}}
	var result models.SolveResult
	_, err := c.ds.Do(ctx, http.MethodPost, "/solves/submit", query, submit, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetScoreboard(ctx context.Context, compID string) ([]models.ScoreboardEntry, error) {
	var entries []models.ScoreboardEntry
	_, err := c.ds.Do(ctx, http.MethodGet, "/scoreboard/"+compID, nil, nil, &entries)
	return entries, err
}

func (c *Client) GetGlobalScoreboard(ctx context.Context) ([]models.ScoreboardEntry, error) {
	var entries []models.ScoreboardEntry
	_, err := c.ds.Do(ctx, http.MethodGet, "/scoreboard/global", nil, nil, &entries)
	return entries, err
}

// --- tags ---

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	_, err := c.ds.Do(ctx, http.MethodGet, "/tags/", nil, nil, &tags)
	return tags, err
}

func (c *Client) CreateTag(ctx context.Context, create models.TagCreate) (*models.Tag, error) {
	var tag models.Tag
	_, err := c.ds.Do(ctx, http.MethodPost, "/tags/", nil, create, &tag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) UpdateTag(ctx context.Context, tagID string, update models.TagUpdate) (*models.Tag, error) {
	var tag models.Tag
	found, err := c.ds.Do(ctx, http.MethodPatch, "/tags/"+tagID, nil, update, &tag)
	if err != nil || !found {
		return nil, err
	}
	return &tag, nil
}

func (c *Client) DeleteTag(ctx context.Context, tagID string) error {
	_, err := c.ds.Do(ctx, http.MethodDelete, "/tags/"+tagID, nil, nil, nil)
	return err
}

// --- attendance ---

func (c *Client) RecordAttendance(ctx context.Context, create models.AttendanceCreate, userID string) (*models.Attendance, error) {
	query := url.Values{"users_id": {userID}}
	var att models.Attendance
	_, err := c.ds.Do(ctx, http.MethodPost, "/attendance/", query, create, &att)
	if err != nil {
		return nil, err
	}
	return &att, nil
}

func (c *Client) GetAllAttendances(ctx context.Context) ([]models.Attendance, error) {
	var atts []models.Attendance
	_, err := c.ds.Do(ctx, http.MethodGet, "/attendance/", nil, nil, &atts)
	return atts, err
}

func (c *Client) GetUserAttendance(ctx context.Context, userID string) ([]models.Attendance, error) {
	var atts []models.Attendance
	_, err := c.ds.Do(ctx, http.MethodGet, "/attendance/user/"+userID, nil, nil, &atts)
	return atts, err
}

func (c *Client) GetCompetitionAttendance(ctx context.Context, compID string) ([]models.Attendance, error) {
	var atts []models.Attendance
	_, err := c.ds.Do(ctx, http.MethodGet, "/attendance/competition/"+compID, nil, nil, &atts)
	return atts, err
}
