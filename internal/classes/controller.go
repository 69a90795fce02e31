package classes

import (
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

// CreateClass handles POST /api/v1/admin/classes
func (c *Controller) CreateClass(ctx *gin.Context) {
	adminID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	class, err := c.service.CreateClass(ctx.Request.Context(), adminID, req)
	if err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Class created successfully", class, nil)
}

// GetClass handles GET /api/v1/classes/:id
func (c *Controller) GetClass(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, nil)
		return
	}

	class, err := c.service.GetClassByID(ctx.Request.Context(), classID)
	if err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Class retrieved successfully", class, nil)
}

// GetClasses handles GET /api/v1/classes
func (c *Controller) GetClasses(ctx *gin.Context) {
	var query ClassListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.GetAllClasses(ctx.Request.Context(), query)
	if err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Classes retrieved successfully", gin.H{
		"classes": result,
		"count":   len(result),
	}, nil)
}

// GetActiveClasses handles GET /api/v1/classes/active
func (c *Controller) GetActiveClasses(ctx *gin.Context) {
	result, err := c.service.GetActiveClasses(ctx.Request.Context())
	if err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Active classes retrieved successfully", gin.H{
		"classes": result,
		"count":   len(result),
	}, nil)
}

// UpdateClass handles PUT /api/v1/admin/classes/:id
func (c *Controller) UpdateClass(ctx *gin.Context) {
	adminID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	classID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, nil)
		return
	}

	var req UpdateClassRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	class, err := c.service.UpdateClass(ctx.Request.Context(), classID, adminID, req)
	if err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Class updated successfully", class, nil)
}

// DeleteClass handles DELETE /api/v1/admin/classes/:id
func (c *Controller) DeleteClass(ctx *gin.Context) {
	classID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid class ID", nil, nil)
		return
	}

	if err := c.service.DeleteClass(ctx.Request.Context(), classID); err != nil {
		respondClassError(ctx, err)
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Class deleted successfully", nil, nil)
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

func respondClassError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrClassNotFound):
		response.RespondJSON(ctx, "error", http.StatusNotFound, err.Error(), nil, nil)
	case errors.Is(err, ErrClassHasReservations):
		response.RespondJSON(ctx, "error", http.StatusConflict, err.Error(), nil, nil)
	case errors.Is(err, ErrClassDateInPast),
		errors.Is(err, ErrCapacityBelowReserved),
		errors.Is(err, ErrInvalidCapacity),
		errors.Is(err, ErrInvalidScheduleWindow):
		response.RespondJSON(ctx, "error", http.StatusUnprocessableEntity, err.Error(), nil, nil)
	default:
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to process class request", nil, err.Error())
	}
}
