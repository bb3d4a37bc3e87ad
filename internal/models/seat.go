package models

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "AVAILABLE"
	SeatStatusReserved  SeatStatus = "RESERVED"
)

type SeatGrade string

const (
	SeatGradeVIP SeatGrade = "VIP"
	SeatGradeR   SeatGrade = "R"
	SeatGradeS   SeatGrade = "S"
	SeatGradeA   SeatGrade = "A"
)

// Seat is the contended resource. Version increments on every successful
// write; reservation uses it for a conditional compare-and-swap so that
// exactly one of many racing writers wins.
type Seat struct {
	ID         uint64     `json:"id"`
	ScheduleID uint64     `json:"schedule_id"`
	SeatNumber int        `json:"seat_number"`
	Grade      SeatGrade  `json:"grade"`
	Price      int64      `json:"price"`
	Status     SeatStatus `json:"status"`
	Version    int64      `json:"version"`
}

func (s *Seat) IsAvailable() bool {
	return s.Status == SeatStatusAvailable
}
