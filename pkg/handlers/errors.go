package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/arnavshah/vendor-match-api/pkg/scorer"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// respondError maps an error onto a status code and writes it.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		inputErr *scorer.InputError
		verrs    validator.ValidationErrors
	)
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request", Details: fieldErrors(verrs)})
	case errors.As(err, &inputErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid input",
			Details: map[string]string{inputErr.Field: inputErr.Reason},
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	default:
		h.Log.Error("request failed",
			zap.String("request_id", RequestIDFromContext(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// respondBindError reports a request body that could not be decoded or validated.
func (h *Handler) respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

// fieldErrors flattens validator errors into "Vendors[0].Name" -> "required".
func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		out[ns] = rule
	}
	return out
}
