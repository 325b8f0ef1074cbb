package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/linesmerrill/drone-survey-sync/apiclient"
)

// Notifier shows transient notifications to the user
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier writes notifications to the global zap logger
type LogNotifier struct{}

// Success logs at info level
func (LogNotifier) Success(message string) {
	zap.S().Infow("notification", "level", "success", "message", message)
}

// Error logs at warn level
func (LogNotifier) Error(message string) {
	zap.S().Warnw("notification", "level", "error", "message", message)
}

// userMessage picks the notification text for err
func userMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return fieldMessage(verrs[0])
	}
	return apiclient.UserMessage(err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	}
	return fmt.Sprintf("%s is invalid", field)
}
