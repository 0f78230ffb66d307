package payment_types

import "fmt"

type PaymentProcessor interface {
	CreateOrder(accessToken string, merchantID string) (*Order, error)
	AddLineItem(accessToken string, merchantID string, orderID string, amountCents int64, description string) (*LineItem, error)
	CreatePayment(accessToken string, merchantID string, orderID string, amountCents int64, currency string) (*Payment, error)
	GetPaymentDetails(accessToken string, merchantID string, paymentID string) (*Payment, error)
	GetMerchantInfo(accessToken string, merchantID string) (*Merchant, error)
}

type Order struct {
	ID string `json:"id"`
}

type LineItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type Payment struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type Merchant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// APIError is a processor rejection. The processor answered, just not with a
// success code; the caller surfaces the processor's own status and message.
type APIError struct {
	Operation  string
	StatusCode int
	URL        string
	Message    string
	Raw        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s failed with status %d: %s", e.Operation, e.StatusCode, e.Message)
}
