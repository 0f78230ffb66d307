package clover_payment_processor

import (
	"encoding/json"
	"fmt"
	"strings"

	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/env"
	"cloverlink.io/infrastructure/logger"
	"cloverlink.io/infrastructure/network"
	payment_types "cloverlink.io/infrastructure/payments/types"
)

const SandboxBaseURL = "https://sandbox.dev.clover.com"

var Processor payment_types.PaymentProcessor

// CloverPaymentProcessor is a stateless client for the Clover REST surface.
// Every call takes the access token; the processor holds no session state.
type CloverPaymentProcessor struct {
	Network *network.NetworkController
	Events  *activitylog.Log
}

func InitialisePaymentProcessor(events *activitylog.Log) {
	Processor = &CloverPaymentProcessor{
		Network: &network.NetworkController{
			BaseUrl: env.GetOrDefault("CLOVER_API_BASE_URL", SandboxBaseURL),
		},
		Events: events,
	}
}

func (clover *CloverPaymentProcessor) headers(accessToken string) *map[string]string {
	return &map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", accessToken),
		"Content-Type":  "application/json",
	}
}

// validateResponse classifies a non-success status into an APIError carrying
// the operation, status, URL and whatever the processor said, then records it
// on the activity log error channel.
func (clover *CloverPaymentProcessor) validateResponse(operation string, path string, response *[]byte, statusCode *int) error {
	if *statusCode >= 200 && *statusCode < 300 {
		return nil
	}
	apiErr := &payment_types.APIError{
		Operation:  operation,
		StatusCode: *statusCode,
		URL:        clover.Network.BaseUrl + path,
		Raw:        string(*response),
	}
	var errorBody cloverErrorResponse
	if err := json.Unmarshal(*response, &errorBody); err == nil && errorBody.Message != "" {
		apiErr.Message = errorBody.Message
	} else {
		apiErr.Message = fmt.Sprintf("HTTP %d: %s", *statusCode, string(*response))
	}
	logger.Error(fmt.Sprintf("clover rejected %s", operation), logger.LoggerOptions{
		Key:  "statusCode",
		Data: *statusCode,
	}, logger.LoggerOptions{
		Key:  "body",
		Data: apiErr.Raw,
	})
	if clover.Events != nil {
		clover.Events.RecordError("API_ERROR", apiErr.Message, map[string]any{
			"operation":   operation,
			"status_code": *statusCode,
			"url":         apiErr.URL,
		})
	}
	return apiErr
}

func (clover *CloverPaymentProcessor) CreateOrder(accessToken string, merchantID string) (*payment_types.Order, error) {
	path := fmt.Sprintf("/v3/merchants/%s/orders", merchantID)
	// Clover expects an empty JSON body to allocate a new empty order.
	response, statusCode, err := clover.Network.Post(path, clover.headers(accessToken), map[string]any{})
	if err != nil {
		logger.Error("an error occured while trying to call CreateOrder", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if err := clover.validateResponse("create_order", path, response, statusCode); err != nil {
		return nil, err
	}
	var order payment_types.Order
	if err := json.Unmarshal(*response, &order); err != nil {
		logger.Error("an error occured while trying to unmarshal CreateOrder response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &order, nil
}

func (clover *CloverPaymentProcessor) AddLineItem(accessToken string, merchantID string, orderID string, amountCents int64, description string) (*payment_types.LineItem, error) {
	path := fmt.Sprintf("/v3/merchants/%s/orders/%s/line_items", merchantID, orderID)
	response, statusCode, err := clover.Network.Post(path, clover.headers(accessToken), map[string]any{
		"name":  description,
		"price": amountCents,
	})
	if err != nil {
		logger.Error("an error occured while trying to call AddLineItem", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if err := clover.validateResponse("add_line_item", path, response, statusCode); err != nil {
		return nil, err
	}
	var lineItem payment_types.LineItem
	if err := json.Unmarshal(*response, &lineItem); err != nil {
		logger.Error("an error occured while trying to unmarshal AddLineItem response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &lineItem, nil
}

func (clover *CloverPaymentProcessor) CreatePayment(accessToken string, merchantID string, orderID string, amountCents int64, currency string) (*payment_types.Payment, error) {
	path := fmt.Sprintf("/v3/merchants/%s/payments", merchantID)
	// "ecom" marks a card-not-present transaction source.
	response, statusCode, err := clover.Network.Post(path, clover.headers(accessToken), map[string]any{
		"order": map[string]any{
			"id": orderID,
		},
		"amount":   amountCents,
		"currency": strings.ToUpper(currency),
		"source":   "ecom",
	})
	if err != nil {
		logger.Error("an error occured while trying to call CreatePayment", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if err := clover.validateResponse("create_payment", path, response, statusCode); err != nil {
		return nil, err
	}
	var payment payment_types.Payment
	if err := json.Unmarshal(*response, &payment); err != nil {
		logger.Error("an error occured while trying to unmarshal CreatePayment response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &payment, nil
}

func (clover *CloverPaymentProcessor) GetPaymentDetails(accessToken string, merchantID string, paymentID string) (*payment_types.Payment, error) {
	path := fmt.Sprintf("/v3/merchants/%s/payments/%s", merchantID, paymentID)
	response, statusCode, err := clover.Network.Get(path, clover.headers(accessToken), nil)
	if err != nil {
		logger.Error("an error occured while trying to call GetPaymentDetails", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if err := clover.validateResponse("get_payment_details", path, response, statusCode); err != nil {
		return nil, err
	}
	var payment payment_types.Payment
	if err := json.Unmarshal(*response, &payment); err != nil {
		logger.Error("an error occured while trying to unmarshal GetPaymentDetails response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &payment, nil
}

func (clover *CloverPaymentProcessor) GetMerchantInfo(accessToken string, merchantID string) (*payment_types.Merchant, error) {
	path := fmt.Sprintf("/v3/merchants/%s", merchantID)
	response, statusCode, err := clover.Network.Get(path, clover.headers(accessToken), nil)
	if err != nil {
		logger.Error("an error occured while trying to call GetMerchantInfo", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	if err := clover.validateResponse("get_merchant_info", path, response, statusCode); err != nil {
		return nil, err
	}
	var merchant payment_types.Merchant
	if err := json.Unmarshal(*response, &merchant); err != nil {
		logger.Error("an error occured while trying to unmarshal GetMerchantInfo response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return nil, err
	}
	return &merchant, nil
}
