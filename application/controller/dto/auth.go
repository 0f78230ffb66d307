package dto

// OAuthCallbackDTO carries the provider's callback query parameters. The
// merchant id arrives here, not in the token endpoint response.
type OAuthCallbackDTO struct {
	Code       string
	MerchantID string
	State      string
	Error      string
}
