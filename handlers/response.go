package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/presupuesto/budget_backend/utils"
)

// Every failure leaves the API as {"error": {code, message, details}}.
type errorBody struct {
	Code    utils.ErrorCode          `json:"code"`
	Message string                   `json:"message"`
	Details []map[string]interface{} `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

var statusByCode = map[utils.ErrorCode]int{
	utils.ErrorCodeValidation: http.StatusBadRequest,
	utils.ErrorCodeNotFound:   http.StatusNotFound,
	utils.ErrorCodeConflict:   http.StatusConflict,
	utils.ErrorCodeInactive:   http.StatusConflict,
	utils.ErrorCodeInternal:   http.StatusInternalServerError,
}

func respondAppError(c *gin.Context, appErr *utils.AppError) {
	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	c.JSON(status, errorEnvelope{Error: errorBody{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// respondError maps any error onto the envelope. Unexpected errors are
// reported as INTERNAL_ERROR without leaking their message.
func respondError(c *gin.Context, err error) {
	if appErr, ok := utils.AsAppError(err); ok {
		respondAppError(c, appErr)
		return
	}
	_ = c.Error(err)
	respondAppError(c, utils.InternalError(err))
}

// respondBindingError turns gin/validator binding failures into
// VALIDATION_ERROR with one detail entry per failed field.
func respondBindingError(c *gin.Context, err error) {
	appErr := utils.ValidationError("request validation failed")
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range fieldErrs {
			appErr = appErr.WithDetail(map[string]interface{}{
				"field":  fe.Field(),
				"reason": fe.Tag(),
			})
		}
	} else {
		appErr = appErr.WithDetail(map[string]interface{}{
			"reason": err.Error(),
		})
	}
	respondAppError(c, appErr)
}

// pathID parses the :id (or another named) path segment as a positive int.
func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		respondAppError(c, utils.ValidationError("%s must be a positive integer", name))
		return 0, false
	}
	return id, true
}

func NotFoundRoute(c *gin.Context) {
	respondAppError(c, utils.NotFoundError("route not found"))
}
