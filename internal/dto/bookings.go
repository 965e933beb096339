package dto

// CreateBookingRequest represents the payload to request joining a trip
type CreateBookingRequest struct {
	Trip string `json:"trip"`
}

// RespondBookingRequest represents the organizer's decision on a booking
type RespondBookingRequest struct {
	Status string `json:"status"` // accepted | declined | cancelled
}

// BookingResponse represents a booking object in responses
type BookingResponse struct {
	ID        string `json:"id"`
	Trip      string `json:"trip"`
	User      string `json:"user"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}
