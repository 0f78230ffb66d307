package dto

type PaymentRequestDTO struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,min=1,max=100"`
	// Optional; defaults to USD when omitted.
	Currency string `json:"currency" validate:"omitempty,currency_code"`
}

type PaymentResponseDTO struct {
	Status      string  `json:"status"`
	PaymentID   string  `json:"payment_id"`
	OrderID     string  `json:"order_id"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}
