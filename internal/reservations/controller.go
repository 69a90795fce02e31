package reservations

import (
	"context"
	"errors"
	"net/http"

	"fitbook/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// Reserve handles POST /api/v1/reservations
func (c *Controller) Reserve(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req ReserveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	classID, err := uuid.Parse(req.ClassID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, nil)
		return
	}

	reservation, err := c.service.Reserve(ctx.Request.Context(), userID, classID)
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Reservation confirmed successfully", reservation, nil)
}

// Cancel handles POST /api/v1/reservations/:id/cancel
func (c *Controller) Cancel(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	reservationID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid reservation ID", nil, nil)
		return
	}

	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)

	reservation, err := c.service.Cancel(ctx.Request.Context(), reservationID, userID, roleStr)
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservation cancelled successfully", reservation, nil)
}

// GetUpcoming handles GET /api/v1/reservations/upcoming
func (c *Controller) GetUpcoming(ctx *gin.Context) {
	c.listForUser(ctx, c.service.ListUpcoming, "Upcoming reservations retrieved successfully")
}

// GetCompleted handles GET /api/v1/reservations/completed
func (c *Controller) GetCompleted(ctx *gin.Context) {
	c.listForUser(ctx, c.service.ListCompleted, "Completed reservations retrieved successfully")
}

// GetCancelled handles GET /api/v1/reservations/cancelled
func (c *Controller) GetCancelled(ctx *gin.Context) {
	c.listForUser(ctx, c.service.ListCancelled, "Cancelled reservations retrieved successfully")
}

// GetClassReservations handles GET /api/v1/admin/classes/:id/reservations
func (c *Controller) GetClassReservations(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, nil)
		return
	}

	result, err := c.service.ClassReservations(ctx.Request.Context(), classID)
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Class reservations retrieved successfully", gin.H{
		"reservations": result,
		"count":        len(result),
	}, nil)
}

// GetAllReservations handles GET /api/v1/admin/reservations
func (c *Controller) GetAllReservations(ctx *gin.Context) {
	result, err := c.service.ListAll(ctx.Request.Context())
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations retrieved successfully", gin.H{
		"reservations": result,
		"count":        len(result),
	}, nil)
}

func (c *Controller) listForUser(ctx *gin.Context, list func(context.Context, uuid.UUID) ([]ReservationResponse, error), message string) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	result, err := list(ctx.Request.Context(), userID)
	if err != nil {
		respondReservationError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, message, gin.H{
		"reservations": result,
		"count":        len(result),
	}, nil)
}

func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDValue, exists := ctx.Get("user_id")
	if !exists {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return uuid.Nil, false
	}

	userIDStr, ok := userIDValue.(string)
	if !ok {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Invalid user ID format", nil, nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid user ID", nil, nil)
		return uuid.Nil, false
	}
	return userID, true
}

func respondReservationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrClassNotFound), errors.Is(err, ErrReservationNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrDuplicateReservation),
		errors.Is(err, ErrNoAvailableSpots),
		errors.Is(err, ErrAlreadyCancelled):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrClassNotBookable), errors.Is(err, ErrClassAlreadyOccurred):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	case errors.Is(err, ErrNotReservationOwner):
		response.RespondJSON(ctx, "error", http.StatusForbidden, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process reservation request", nil, err.Error())
	}
}
