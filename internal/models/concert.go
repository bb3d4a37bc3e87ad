package models

import "time"

type Concert struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	RunningTime int    `json:"running_time"`
}

// ConcertSchedule is one dated performance of a concert. Seats belong to a
// schedule, not to the concert itself.
type ConcertSchedule struct {
	ID          uint64    `json:"id"`
	ConcertID   uint64    `json:"concert_id"`
	ConcertDate time.Time `json:"concert_date"`
}
