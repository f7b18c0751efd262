package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/internal/logger"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

type ErrorBody struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as {"error": message}. Internal errors are logged and
// their cause is never echoed to the client.
func Error(w http.ResponseWriter, log logger.ZapLogger, err error) {
	appErr := apperror.FromError(err)
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		log.Error("request failed", zap.Error(err))
	}
	JSON(w, appErr.HTTPStatus, ErrorBody{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}

// Decode reads a JSON body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperror.Validation("malformed request body").Wrap(err)
	}
	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Bind decodes the body into v and runs its validate tags. Field failures
// are reported in the error details.
func Bind(r *http.Request, v any) error {
	if err := Decode(r, v); err != nil {
		return err
	}
	err := getValidator().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Validation("validation failed").Wrap(err)
	}
	appErr := apperror.Validation("validation failed")
	for _, fe := range fieldErrs {
		appErr.WithDetail(fe.Field(), formatFieldError(fe))
	}
	return appErr
}

func formatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "failed " + e.Tag() + " validation"
	}
}
