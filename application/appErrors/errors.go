package apperrors

import (
	"fmt"
	"net/http"

	"cloverlink.io/infrastructure/logger"
	server_response "cloverlink.io/infrastructure/serverResponse"
)

func NotFoundError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusNotFound, message, nil, nil)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error) {
	server_response.Responder.Respond(ctx, http.StatusUnprocessableEntity, "Payload validation failed", nil, *errMessages)
}

func AuthenticationError(ctx interface{}, message string) {
	server_response.Responder.Respond(ctx, http.StatusUnauthorized, message, nil, nil)
}

// ProcessorError surfaces the payment processor's own status code and message.
func ProcessorError(ctx interface{}, statusCode int, message string) {
	server_response.Responder.Respond(ctx, statusCode, fmt.Sprintf("Clover API Error: %s", message), nil, nil)
}

func ExternalDependencyError(ctx interface{}, serviceName string, err error) {
	logger.Error(fmt.Sprintf("error reaching %s", serviceName), logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusServiceUnavailable,
		"Our payment provider could not be reached. Please try again later.", nil, nil)
}

func ConfigurationError(ctx interface{}, err error) {
	logger.Error("service is misconfigured", logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusInternalServerError,
		fmt.Sprintf("%s. Please check your .env file or docker command.", err.Error()), nil, nil)
}

func ErrorProcessingPayload(ctx interface{}) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, "Abnormal payload passed", nil, nil)
}

func FatalServerError(ctx interface{}, err error) {
	logger.Error("fatal server error", logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusInternalServerError,
		"An unexpected error occurred. Please try again later.", nil, nil)
}

func ClientError(ctx interface{}, msg string, errs []error) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, msg, nil, errs)
}
