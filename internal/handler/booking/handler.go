package booking

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ridexchange/dealer-api/internal/middleware"
	"github.com/ridexchange/dealer-api/internal/model"
	"github.com/ridexchange/dealer-api/internal/schedule"
	"github.com/ridexchange/dealer-api/internal/service/booking"
	apperrors "github.com/ridexchange/dealer-api/pkg/errors"
	"github.com/ridexchange/dealer-api/pkg/httputil"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

// GetAvailability returns the free hourly slots for the requested date.
func (h *Handler) GetAvailability(c *gin.Context) {
	date, err := time.Parse(dateLayout, c.Query("date"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("date must be formatted as YYYY-MM-DD", err))
		return
	}

	slots, err := h.service.GetAvailability(c.Request.Context(), date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	// An empty day serializes as [] rather than null.
	if slots == nil {
		slots = []schedule.Slot{}
	}
	httputil.RespondWithSuccess(c, gin.H{
		"date":  date.Format(dateLayout),
		"slots": slots,
	})
}

// BookService commits a booking. Guests may book; when a valid token is
// present the booking is attached to the caller's account.
func (h *Handler) BookService(c *gin.Context) {
	var req model.BookServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("invalid request body", err))
		return
	}

	created, err := h.service.BookService(c.Request.Context(), &req, middleware.UserIDFromContext(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

// GetBooking returns one booking, e.g. for the confirmation page.
func (h *Handler) GetBooking(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("invalid booking ID", err))
		return
	}

	found, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, found)
}

// ListMyBookings returns the authenticated caller's bookings.
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), *userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

// ListBookings is the staff listing, filterable by date and status.
func (h *Handler) ListBookings(c *gin.Context) {
	filters := &model.BookingFilters{}

	if d := c.Query("date"); d != "" {
		date, err := time.Parse(dateLayout, d)
		if err != nil {
			httputil.RespondWithError(c, apperrors.NewValidation("date must be formatted as YYYY-MM-DD", err))
			return
		}
		filters.Date = &date
	}

	if s := c.Query("status"); s != "" {
		status := model.BookingStatus(s)
		if !status.Valid() {
			httputil.RespondWithError(c, apperrors.NewValidation("unknown status filter", nil))
			return
		}
		filters.Status = status
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

// UpdateStatus is the staff status transition endpoint.
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("invalid booking ID", err))
		return
	}

	var req model.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("invalid request body", err))
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, middleware.UserIDFromContext(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, updated)
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	r.GET("/availability", h.GetAvailability)

	bookings := r.Group("/bookings")
	{
		bookings.POST("", auth.OptionalAuth(), h.BookService)
		bookings.GET("/me", auth.RequireAuth(), h.ListMyBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.GET("", auth.RequireStaff(), h.ListBookings)
		bookings.PATCH("/:id/status", auth.RequireStaff(), h.UpdateStatus)
	}
}
