package controller

import (
	"errors"
	"net/http"

	apperrors "cloverlink.io/application/appErrors"
	"cloverlink.io/application/controller/dto"
	"cloverlink.io/application/interfaces"
	"cloverlink.io/application/usecases/payment"
	"cloverlink.io/infrastructure/network"
	payment_types "cloverlink.io/infrastructure/payments/types"
	server_response "cloverlink.io/infrastructure/serverResponse"
	"cloverlink.io/infrastructure/validator"
)

func Pay(ctx *interfaces.ApplicationContext[dto.PaymentRequestDTO]) {
	validationErr := validator.ValidatorInstance.ValidateStruct(*ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr)
		return
	}
	result, err := payment.Checkout.ProcessCheckout(ctx.Body.Amount, ctx.Body.Currency, ctx.Body.Description)
	if err != nil {
		var apiErr *payment_types.APIError
		var transportErr *network.TransportError
		switch {
		case errors.Is(err, payment.ErrUnauthenticated):
			apperrors.AuthenticationError(ctx.Ctx, "Not authenticated. Please login.")
		case errors.As(err, &apiErr):
			apperrors.ProcessorError(ctx.Ctx, apiErr.StatusCode, apiErr.Message)
		case errors.As(err, &transportErr):
			apperrors.ExternalDependencyError(ctx.Ctx, "clover", err)
		default:
			apperrors.FatalServerError(ctx.Ctx, err)
		}
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "payment processed", dto.PaymentResponseDTO{
		Status:      result.Status,
		PaymentID:   result.PaymentID,
		OrderID:     result.OrderID,
		Amount:      result.Amount,
		Currency:    result.Currency,
		Description: result.Description,
	}, nil)
}
