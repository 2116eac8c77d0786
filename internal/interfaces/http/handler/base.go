package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/gateway/internal/domain/shared"
	"github.com/shopfront/gateway/internal/infrastructure/upstream"
	"github.com/shopfront/gateway/internal/interfaces/http/dto"
	"github.com/shopfront/gateway/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDHeader); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithPagination sends a success response with paging metadata
func (h *BaseHandler) SuccessWithPagination(c *gin.Context, data any, pagination *shared.Pagination) {
	response := dto.NewSuccessResponse(data)
	if pagination != nil {
		response.Meta = &dto.Meta{
			Total:       pagination.Total,
			Page:        pagination.Page,
			Limit:       pagination.Limit,
			TotalPages:  pagination.TotalPages,
			HasNext:     pagination.HasNext(),
			HasPrevious: pagination.HasPrevious(),
		}
	}
	c.JSON(http.StatusOK, response)
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, getRequestID(c)))
}

// Error maps an application error onto the gateway's response
// envelope. Sentinels are matched before the generic domain-error
// branch: the shared sentinels are themselves domain errors, so the
// order decides whether a bad login is a 401 or a 422. Platform errors
// pass the platform's code through; an unreachable platform is a 503
// with the outage message.
func (h *BaseHandler) Error(c *gin.Context, err error) {
	requestID := getRequestID(c)

	switch {
	case errors.Is(err, shared.ErrUpstreamDown) || errors.Is(err, upstream.ErrUnavailable):
		c.JSON(dto.GetHTTPStatus(dto.ErrCodePlatformDown),
			dto.NewErrorResponseWithRequestID(dto.ErrCodePlatformDown, shared.ErrUpstreamDown.Error(), requestID))
		return

	case errors.Is(err, shared.ErrUnauthorized) || errors.Is(err, upstream.ErrUnauthorized):
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeUnauthorized),
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
		return

	case errors.Is(err, shared.ErrForbidden) || errors.Is(err, upstream.ErrForbidden):
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeForbidden),
			dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Access denied", requestID))
		return

	case errors.Is(err, shared.ErrNotFound) || errors.Is(err, upstream.ErrNotFound):
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeNotFound),
			dto.NewErrorResponseWithRequestID(dto.ErrCodeNotFound, "Resource not found", requestID))
		return

	case errors.Is(err, shared.ErrActionInFlight):
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeActionInFlight),
			dto.NewErrorResponseWithRequestID(dto.ErrCodeActionInFlight, "Another action is already running, please wait", requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(http.StatusUnprocessableEntity,
			dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	var apiErr *upstream.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.Code
		if code == "" {
			code = dto.ErrCodePlatformError
		}
		status := apiErr.HTTPStatus
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(code, apiErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "Internal server error", requestID))
}
