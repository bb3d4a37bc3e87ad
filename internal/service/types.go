package service

import (
	"time"
)

// RankNotFound is returned by GetRank for a user that neither waits nor holds
// an active session.
const RankNotFound int64 = -1

// RankAdmitted means the user may skip the line and call the protected
// operation right away.
const RankAdmitted int64 = 0

type SignupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type JoinQueueOutput struct {
	Position    int64     `json:"position"`
	QueueLength int64     `json:"queue_length"`
	JoinedAt    time.Time `json:"joined_at"`
}

type ReserveInput struct {
	SeatID uint64 `json:"seat_id" validate:"required,gt=0"`
}

// SchedulerStatus is a point-in-time snapshot of the admission scheduler.
type SchedulerStatus struct {
	IsRunning     bool      `json:"is_running"`
	StartedAt     time.Time `json:"started_at,omitempty"`
	LastTick      time.Time `json:"last_tick,omitempty"`
	TotalPromoted int64     `json:"total_promoted"`
	ErrorCount    int64     `json:"error_count"`
}
