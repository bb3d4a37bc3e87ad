package models

import "time"

// Ticket is the proof of a winning reservation. Created exactly once per
// reserved seat, immutable afterwards.
type Ticket struct {
	ID       string    `json:"id"`
	SeatID   uint64    `json:"seat_id"`
	MemberID uint64    `json:"member_id"`
	IssuedAt time.Time `json:"issued_at"`
}
