package clover_payment_processor

type cloverErrorResponse struct {
	Message string `json:"message"`
}
