package models

import (
	"time"
)

// User represents a platform user as stored by the interpreter
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// UserUpdate carries the mutable profile fields
type UserUpdate struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=3,max=30"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=admin student"`
}

// Competition represents a CTF competition
type Competition struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	StartDate   UTCTime `json:"start_date"`
	EndDate     UTCTime `json:"end_date"`
	InviteCode  string  `json:"invite_code,omitempty"`
}

// CompetitionCreate is the admin payload for creating a competition
type CompetitionCreate struct {
	Name        string    `json:"name" binding:"required,min=1,max=120"`
	Description string    `json:"description" binding:"max=2000"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
}

// CompetitionUpdate carries partial competition changes
type CompetitionUpdate struct {
	Name        *string    `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	Description *string    `json:"description,omitempty" binding:"omitempty,max=2000"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// CompetitionJoin is the invite-code payload for enrolling the caller
type CompetitionJoin struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

// Exercise represents a challenge as visible to students
type Exercise struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Points      int    `json:"points"`
	Tags        []Tag  `json:"tags,omitempty"`
}

// ExerciseAdmin is the full challenge record, flag and image included.
// Only ever returned to admins.
type ExerciseAdmin struct {
	Exercise
	Flag        string `json:"flag"`
	DockerImage string `json:"docker_image"`
}

// ExerciseCreate is the admin payload for creating an exercise
type ExerciseCreate struct {
	Name        string `json:"name" binding:"required,min=1,max=120"`
	Description string `json:"description" binding:"max=4000"`
	Category    string `json:"category" binding:"max=60"`
	Points      int    `json:"points" binding:"required,gt=0"`
	Flag        string `json:"flag" binding:"required"`
	DockerImage string `json:"docker_image" binding:"omitempty,imageref"`
}

// ExerciseUpdate carries partial exercise changes
type ExerciseUpdate struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=4000"`
	Category    *string `json:"category,omitempty" binding:"omitempty,max=60"`
	Points      *int    `json:"points,omitempty" binding:"omitempty,gt=0"`
	Flag        *string `json:"flag,omitempty"`
	DockerImage *string `json:"docker_image,omitempty" binding:"omitempty,imageref"`
}

// SolveSubmit is a flag submission from a student
type SolveSubmit struct {
	CompetitionsID string `json:"competitions_id" binding:"required"`
	ExercisesID    string `json:"exercises_id" binding:"required"`
	Flag           string `json:"flag" binding:"required"`
}

// SolveResult is the interpreter's verdict on a submission
type SolveResult struct {
	Correct bool   `json:"correct"`
	Points  int    `json:"points"`
	Message string `json:"message"`
}

// Solve represents a recorded submission
type Solve struct {
	ID             string    `json:"id"`
	UsersID        string    `json:"users_id"`
	ExercisesID    string    `json:"exercises_id"`
	CompetitionsID string    `json:"competitions_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// Container represents a running exercise container registered with the
// interpreter
type Container struct {
	ID         string `json:"id"`
	DockerID   string `json:"docker_id"`
	ImageTag   string `json:"image_tag"`
	Port       int    `json:"port"`
	Connection string `json:"connection"`
	IsActive   bool   `json:"is_active"`
}

// ContainerRegistration is what the gateway registers with the interpreter
// after the orchestrator reports a started container
type ContainerRegistration struct {
	DockerID   string `json:"docker_id"`
	ImageTag   string `json:"image_tag"`
	Port       int    `json:"port"`
	Connection string `json:"connection"`
}

// DeployRequest asks the orchestrator to bring up an exercise container
type DeployRequest struct {
	TimeAlive int `json:"time_alive" binding:"required,gt=0"`
}

// ConnectionInfo is the student-facing view of a running container
type ConnectionInfo struct {
	Connection string `json:"connection"`
	Port       int    `json:"port"`
}

// Attendance represents one check-in of a user at a competition
type Attendance struct {
	ID             string    `json:"id"`
	UsersID        string    `json:"users_id"`
	CompetitionsID string    `json:"competitions_id"`
	Timestamp      time.Time `json:"timestamp"`
}

// AttendanceCreate records attendance; UsersID is honored only when the
// caller is an admin recording for someone else
type AttendanceCreate struct {
	CompetitionsID string `json:"competitions_id" binding:"required"`
	UsersID        string `json:"users_id,omitempty"`
}

// ScoreboardEntry is one row of a scoreboard, ordered by score downstream
type ScoreboardEntry struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// Tag represents an exercise label
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagCreate is the admin payload for creating a tag
type TagCreate struct {
	Name string `json:"name" binding:"required,min=1,max=60"`
}

// TagUpdate renames a tag
type TagUpdate struct {
	Name string `json:"name" binding:"required,min=1,max=60"`
}
