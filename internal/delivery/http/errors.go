package http

import (
	"net/http"

	"github.com/Carune/Ticket-Service-Practice/internal/service"
	pkgErrors "github.com/Carune/Ticket-Service-Practice/pkg/errors"
)

var (
	errAlreadyQueued       = pkgErrors.NewHTTPError(http.StatusConflict, "ALREADY_QUEUED", "You are already in the waiting queue")
	errAlreadyActive       = pkgErrors.NewHTTPError(http.StatusConflict, "ALREADY_ACTIVE", "You have already been admitted")
	errRateLimited         = pkgErrors.NewHTTPError(http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Rank polled too soon, please retry later")
	errNotAdmitted         = pkgErrors.NewHTTPError(http.StatusForbidden, "NOT_ADMITTED", "You have not passed the waiting queue yet")
	errSeatNotFound        = pkgErrors.NewHTTPError(http.StatusNotFound, "SEAT_NOT_FOUND", "Seat not found")
	errSeatUnavailable     = pkgErrors.NewHTTPError(http.StatusConflict, "SEAT_UNAVAILABLE", "Seat is already reserved")
	errReservationConflict = pkgErrors.NewHTTPError(http.StatusConflict, "OPTIMISTIC_LOCK", "Seat was taken by a concurrent reservation, please try again")
	errEmailTaken          = pkgErrors.NewHTTPError(http.StatusConflict, "EMAIL_TAKEN", "Email is already registered")
	errInvalidCredentials  = pkgErrors.NewHTTPError(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	errMemberNotFound      = pkgErrors.NewHTTPError(http.StatusNotFound, "MEMBER_NOT_FOUND", "Member not found")
	errUnauthenticated     = pkgErrors.NewHTTPError(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	errInternal            = pkgErrors.NewHTTPError(http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
)

func mapHTTPError(err error) *pkgErrors.HTTPError {
	switch err {
	case service.ErrAlreadyQueued:
		return errAlreadyQueued
	case service.ErrAlreadyActive:
		return errAlreadyActive
	case service.ErrRateLimited:
		return errRateLimited
	case service.ErrNotAdmitted:
		return errNotAdmitted
	case service.ErrSeatNotFound:
		return errSeatNotFound
	case service.ErrSeatUnavailable:
		return errSeatUnavailable
	case service.ErrReservationConflict:
		return errReservationConflict
	case service.ErrEmailTaken:
		return errEmailTaken
	case service.ErrInvalidCredentials:
		return errInvalidCredentials
	case service.ErrMemberNotFound:
		return errMemberNotFound
	default:
		return errInternal
	}
}
