package kafka

import "time"

// Events published by the gate and the reservation resolver. Consumers are
// external (notification, analytics); nothing in this service reads them back.

type QueueJoinedEvent struct {
	UserID    string    `json:"user_id"`
	Position  int64     `json:"position"`
	JoinedAt  time.Time `json:"joined_at"`
	Timestamp time.Time `json:"timestamp"`
}

type QueueLeftEvent struct {
	UserID    string    `json:"user_id"`
	Reason    string    `json:"reason"` // user_left
	LeftAt    time.Time `json:"left_at"`
	Timestamp time.Time `json:"timestamp"`
}

type QueueAdmittedEvent struct {
	UserIDs    []string  `json:"user_ids"`
	ActiveTTL  string    `json:"active_ttl"`
	AdmittedAt time.Time `json:"admitted_at"`
	Timestamp  time.Time `json:"timestamp"`
}

type ReservationCreatedEvent struct {
	TicketID  string    `json:"ticket_id"`
	SeatID    uint64    `json:"seat_id"`
	MemberID  uint64    `json:"member_id"`
	IssuedAt  time.Time `json:"issued_at"`
	Timestamp time.Time `json:"timestamp"`
}
