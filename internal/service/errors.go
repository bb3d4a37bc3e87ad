package service

import "errors"

var (
	ErrAlreadyQueued = errors.New("user is already in the waiting queue")
	ErrAlreadyActive = errors.New("user has already been admitted")
	ErrRateLimited   = errors.New("rank polled too soon, retry later")
	ErrNotAdmitted   = errors.New("user has not passed the waiting queue")

	ErrSeatNotFound        = errors.New("seat not found")
	ErrSeatUnavailable     = errors.New("seat is already reserved")
	ErrReservationConflict = errors.New("seat was taken by a concurrent reservation")

	ErrMemberNotFound     = errors.New("member not found")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
