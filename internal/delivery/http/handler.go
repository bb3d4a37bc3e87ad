package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/Carune/Ticket-Service-Practice/internal/service"
	pkgErrors "github.com/Carune/Ticket-Service-Practice/pkg/errors"
	"github.com/Carune/Ticket-Service-Practice/pkg/logger"
)

type Handler struct {
	authSvc        service.AuthService
	queueSvc       service.QueueService
	concertSvc     service.ConcertService
	reservationSvc service.ReservationService
	scheduler      service.Scheduler
	validator      *validator.Validate
	l              logger.Logger
}

func NewHandler(
	authSvc service.AuthService,
	queueSvc service.QueueService,
	concertSvc service.ConcertService,
	reservationSvc service.ReservationService,
	scheduler service.Scheduler,
	l logger.Logger,
) *Handler {
	return &Handler{
		authSvc:        authSvc,
		queueSvc:       queueSvc,
		concertSvc:     concertSvc,
		reservationSvc: reservationSvc,
		scheduler:      scheduler,
		validator:      validator.New(),
		l:              l,
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
	Errors  any    `json:"errors,omitempty"`
}

type rankResponse struct {
	Rank   int64  `json:"rank"`
	Status string `json:"status"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"scheduler": h.scheduler.Status(),
	})
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in service.SignupInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	m, err := h.authSvc.Signup(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, m)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	out, err := h.authSvc.Login(r.Context(), in)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}

	m, err := h.authSvc.GetMember(r.Context(), memberID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, m)
}

func (h *Handler) ListConcerts(w http.ResponseWriter, r *http.Request) {
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if size <= 0 {
		size = 10
	}
	if page < 0 {
		page = 0
	}

	concerts, err := h.concertSvc.ListConcerts(r.Context(), size, page*size)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, concerts)
}

func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	concertID, ok := h.pathID(w, r, "concertID")
	if !ok {
		return
	}

	schedules, err := h.concertSvc.ListSchedules(r.Context(), concertID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, schedules)
}

func (h *Handler) ListAvailableSeats(w http.ResponseWriter, r *http.Request) {
	scheduleID, ok := h.pathID(w, r, "scheduleID")
	if !ok {
		return
	}

	seats, err := h.concertSvc.ListAvailableSeats(r.Context(), scheduleID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, seats)
}

func (h *Handler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondHTTPError(w, r, errUnauthenticated)
		return
	}

	out, err := h.queueSvc.AddToQueue(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRank(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondHTTPError(w, r, errUnauthenticated)
		return
	}

	rank, err := h.queueSvc.GetRank(r.Context(), userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	resp := rankResponse{Rank: rank}
	switch rank {
	case service.RankAdmitted:
		resp.Status = "admitted"
	case service.RankNotFound:
		resp.Status = "not_queued"
	default:
		resp.Status = "waiting"
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) LeaveQueue(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondHTTPError(w, r, errUnauthenticated)
		return
	}

	if err := h.queueSvc.CancelQueue(r.Context(), userID); err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, messageResponse{Message: "left the waiting queue"})
}

func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}

	var in service.ReserveInput
	if !h.decodeAndValidate(w, r, &in) {
		return
	}

	ticket, err := h.reservationSvc.Reserve(r.Context(), memberID, in.SeatID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, ticket)
}

func (h *Handler) ListMyTickets(w http.ResponseWriter, r *http.Request) {
	memberID, ok := h.memberID(w, r)
	if !ok {
		return
	}

	tickets, err := h.reservationSvc.ListTickets(r.Context(), memberID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, tickets)
}

// decodeAndValidate rejects malformed input before any store is touched.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, in any) bool {
	if err := json.NewDecoder(r.Body).Decode(in); err != nil {
		respondValidationError(w, r, map[string]string{"body": "invalid JSON"})
		return false
	}

	if err := h.validator.Struct(in); err != nil {
		fields := map[string]string{}
		var vErrs validator.ValidationErrors
		if errors.As(err, &vErrs) {
			for _, fe := range vErrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		respondValidationError(w, r, fields)
		return false
	}

	return true
}

func (h *Handler) memberID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	userID, ok := userIDFromContext(r.Context())
	if !ok {
		respondHTTPError(w, r, errUnauthenticated)
		return 0, false
	}

	memberID, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		respondHTTPError(w, r, errUnauthenticated)
		return 0, false
	}

	return memberID, true
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		respondValidationError(w, r, map[string]string{name: "must be a positive integer"})
		return 0, false
	}

	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	httpErr := mapHTTPError(err)
	if httpErr == errInternal {
		h.l.Errorf(r.Context(), "delivery.http: %v", err)
	}

	respondHTTPError(w, r, httpErr)
}

func respondHTTPError(w http.ResponseWriter, r *http.Request, httpErr *pkgErrors.HTTPError) {
	respondJSON(w, httpErr.StatusCode, errorResponse{
		Code:    httpErr.Code,
		Message: httpErr.Message,
		Path:    r.URL.Path,
	})
}

func respondValidationError(w http.ResponseWriter, r *http.Request, fields map[string]string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Request validation failed",
		Path:    r.URL.Path,
		Errors:  fields,
	})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
