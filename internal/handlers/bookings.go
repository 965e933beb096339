package handlers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"GO2GETHER_EXPENSES/internal/dto"
	"GO2GETHER_EXPENSES/internal/models"
	"GO2GETHER_EXPENSES/internal/service"
	"GO2GETHER_EXPENSES/internal/utils"
)

// BookingsHandler manages booking-related endpoints
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler creates a new BookingsHandler
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// Bookings dispatches by HTTP method for /api/bookings
func (h *BookingsHandler) Bookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.CreateBooking(w, r)
	case http.MethodPut, http.MethodPatch:
		h.RespondBooking(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// CreateBooking handles POST /api/bookings
// @Summary Request to join a trip
// @Tags bookings
// @Accept json
// @Produce json
// @Param payload body dto.CreateBookingRequest true "Booking payload"
// @Success 201 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/bookings [post]
func (h *BookingsHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	var req dto.CreateBookingRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	tripID, err := uuid.Parse(req.Trip)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip must be UUID")
		return
	}

	booking, err := h.bookings.RequestBooking(r.Context(), userID, tripID)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusCreated, bookingToDTO(booking))
}

// RespondBooking handles PUT /api/bookings/{booking_id}
// @Summary Accept, decline or cancel a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking_id path string true "Booking ID"
// @Param payload body dto.RespondBookingRequest true "Decision payload"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/bookings/{booking_id} [put]
func (h *BookingsHandler) RespondBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	bookingID, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/bookings/"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid booking id", "booking_id must be UUID")
		return
	}

	var req dto.RespondBookingRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		return // Error already handled by DecodeJSONRequest
	}

	status := models.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	booking, err := h.bookings.RespondBooking(r.Context(), userID, bookingID, status)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, bookingToDTO(booking))
}

// CancelTrip handles POST /api/trips/{trip_id}/cancel
// @Summary Cancel a trip (organizer only)
// @Tags bookings
// @Produce json
// @Param trip_id path string true "Trip ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/trips/{trip_id}/cancel [post]
func (h *BookingsHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "Invalid user context")
		return
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/trips/"), "/cancel")
	tripID, err := uuid.Parse(idStr)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid trip id", "trip_id must be UUID")
		return
	}

	if err := h.bookings.CancelTrip(r.Context(), userID, tripID); err != nil {
		utils.WriteAppError(w, err)
		return
	}

	utils.WriteJSONResponse(w, http.StatusOK, map[string]string{"message": "Trip cancelled successfully"})
}

func bookingToDTO(b *models.Booking) dto.BookingResponse {
	return dto.BookingResponse{
		ID:        b.ID.String(),
		Trip:      b.TripID.String(),
		User:      b.UserID.String(),
		Status:    string(b.Status),
		CreatedAt: utils.FormatTimestamp(b.CreatedAt),
		UpdatedAt: utils.FormatTimestamp(b.UpdatedAt),
	}
}
