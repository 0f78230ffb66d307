package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"

	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/credentials"
	"cloverlink.io/infrastructure/env"
	"cloverlink.io/infrastructure/logger"
	"cloverlink.io/infrastructure/network"
)

// ErrNotConfigured means the OAuth client credentials are missing from the
// environment. Surfaced at login initiation, never during checkout.
var ErrNotConfigured = errors.New("CLOVER_CLIENT_ID is not set")

var Client *OAuthClient

func InitialiseOAuthClient(store *credentials.Store, events *activitylog.Log) {
	Client = &OAuthClient{
		ClientID:     os.Getenv("CLOVER_CLIENT_ID"),
		ClientSecret: os.Getenv("CLOVER_CLIENT_SECRET"),
		RedirectURI:  env.GetOrDefault("APP_REDIRECT_URI", "http://localhost:8000/auth/callback"),
		Network: &network.NetworkController{
			BaseUrl: env.GetOrDefault("CLOVER_API_BASE_URL", "https://sandbox.dev.clover.com"),
		},
		Credentials: store,
		Events:      events,
	}
}

// OAuthClient drives the authorization-code flow against the provider's
// /oauth endpoints and persists the exchanged token in the credential store.
type OAuthClient struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Network      *network.NetworkController
	Credentials  *credentials.Store
	Events       *activitylog.Log
}

type tokenEndpointResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// BuildAuthorizationURL returns the provider page to send the merchant to,
// with a signed state parameter for the callback to verify.
func (client *OAuthClient) BuildAuthorizationURL() (*string, error) {
	if client.ClientID == "" {
		return nil, ErrNotConfigured
	}
	state, err := GenerateStateToken()
	if err != nil {
		return nil, err
	}
	authURL := fmt.Sprintf("%s/oauth/authorize?client_id=%s&redirect_uri=%s&state=%s",
		client.Network.BaseUrl, url.QueryEscape(client.ClientID), url.QueryEscape(client.RedirectURI), url.QueryEscape(*state))
	return &authURL, nil
}

// ExchangeCodeForToken trades the authorization code for an access token and
// saves it. The merchant id comes from the callback query, not the provider,
// so it is attached here before the record is persisted.
func (client *OAuthClient) ExchangeCodeForToken(code string, merchantID string) error {
	form := url.Values{}
	form.Set("client_id", client.ClientID)
	form.Set("client_secret", client.ClientSecret)
	form.Set("code", code)
	response, statusCode, err := client.Network.PostForm("/oauth/token", form)
	if err != nil {
		logger.Error("an error occured while trying to reach the token endpoint", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		client.recordExchangeError(err.Error(), merchantID)
		return err
	}
	if *statusCode < 200 || *statusCode >= 300 {
		err = fmt.Errorf("token endpoint returned status %d: %s", *statusCode, string(*response))
		logger.Error("failed to exchange code for token", logger.LoggerOptions{
			Key:  "statusCode",
			Data: *statusCode,
		}, logger.LoggerOptions{
			Key:  "body",
			Data: string(*response),
		})
		client.recordExchangeError(err.Error(), merchantID)
		return err
	}
	var token tokenEndpointResponse
	if err := json.Unmarshal(*response, &token); err != nil {
		logger.Error("an error occured while trying to unmarshal the token endpoint response", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		client.recordExchangeError(err.Error(), merchantID)
		return err
	}
	if token.AccessToken == "" {
		err = errors.New("token endpoint response carried no access token")
		client.recordExchangeError(err.Error(), merchantID)
		return err
	}
	if err := client.Credentials.Save(&credentials.TokenRecord{
		AccessToken: token.AccessToken,
		MerchantID:  merchantID,
	}, token.ExpiresIn); err != nil {
		client.recordExchangeError(err.Error(), merchantID)
		return err
	}
	logger.Info("successfully exchanged code for access token")
	return nil
}

func (client *OAuthClient) recordExchangeError(message string, merchantID string) {
	if client.Events == nil {
		return
	}
	client.Events.RecordError("TOKEN_EXCHANGE_ERROR", message, map[string]any{
		"merchant_id": merchantID,
	})
}
