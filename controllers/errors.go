package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Vishnukant2275/easyorderin/pkg/resp"
	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var (
		verr *services.ValidationError
		cerr *services.InvalidCodeError
	)
	switch {
	case errors.As(err, &verr):
		resp.Fail(c, http.StatusBadRequest, verr.Error(), gin.H{"field": verr.Field})
	case errors.As(err, &cerr):
		resp.Fail(c, http.StatusUnauthorized, cerr.Error(), gin.H{"remaining": cerr.Remaining})
	case errors.Is(err, services.ErrInvalidPhone),
		errors.Is(err, services.ErrInvalidCodeFormat):
		resp.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrOTPNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, services.ErrRestaurantNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrOTPExpired):
		resp.Fail(c, http.StatusGone, err.Error(), nil)
	case errors.Is(err, services.ErrPaymentNotConfirmed),
		errors.Is(err, services.ErrInvalidTransition):
		resp.Fail(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, services.ErrTableOccupied),
		errors.Is(err, services.ErrAlreadyOccupied),
		errors.Is(err, services.ErrConflict):
		resp.Conflict(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		resp.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrForbidden):
		resp.Forbidden(c, err.Error())
	default:
		resp.ServerError(c, errors.New("internal error"))
		_ = c.Error(err)
	}
}

func restaurantParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("rid"), 10, 64)
	if err != nil || id == 0 {
		resp.BadRequest(c, "invalid restaurant id")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
