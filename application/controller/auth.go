package controller

import (
	"errors"
	"net/http"

	apperrors "cloverlink.io/application/appErrors"
	"cloverlink.io/application/controller/dto"
	"cloverlink.io/application/interfaces"
	"cloverlink.io/infrastructure/auth"
	"cloverlink.io/infrastructure/logger"
	server_response "cloverlink.io/infrastructure/serverResponse"
	"github.com/gin-gonic/gin"
)

func Login(ctx *interfaces.ApplicationContext[any]) {
	ginCtx, ok := ctx.Ctx.(*gin.Context)
	if !ok {
		apperrors.FatalServerError(ctx.Ctx, errors.New("could not access the request context"))
		return
	}
	if !auth.Client.Credentials.IsExpired() {
		logger.Info("token is still valid, redirecting to status")
		ginCtx.Redirect(http.StatusFound, "/auth/status")
		return
	}
	authURL, err := auth.Client.BuildAuthorizationURL()
	if err != nil {
		if errors.Is(err, auth.ErrNotConfigured) {
			apperrors.ConfigurationError(ctx.Ctx, err)
			return
		}
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	ginCtx.Redirect(http.StatusFound, *authURL)
}

func Callback(ctx *interfaces.ApplicationContext[dto.OAuthCallbackDTO]) {
	ginCtx, ok := ctx.Ctx.(*gin.Context)
	if !ok {
		apperrors.FatalServerError(ctx.Ctx, errors.New("could not access the request context"))
		return
	}
	if ctx.Body.Error != "" {
		apperrors.ClientError(ctx.Ctx, "the authorization request was denied", []error{errors.New(ctx.Body.Error)})
		return
	}
	if ctx.Body.Code == "" {
		apperrors.ClientError(ctx.Ctx, "missing authorization code. Check that the redirect URI configured with the provider points at /auth/callback", nil)
		return
	}
	if ctx.Body.MerchantID == "" {
		apperrors.ClientError(ctx.Ctx, "missing merchant id. Please try logging in again", nil)
		return
	}
	if err := auth.VerifyStateToken(ctx.Body.State); err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "state verification failed. Please try logging in again.")
		return
	}
	if err := auth.Client.ExchangeCodeForToken(ctx.Body.Code, ctx.Body.MerchantID); err != nil {
		apperrors.ClientError(ctx.Ctx, "Failed to exchange authorization code for token. Check server logs for details.", nil)
		return
	}
	ginCtx.Redirect(http.StatusFound, "/auth/status")
}

func Logout(ctx *interfaces.ApplicationContext[any]) {
	ginCtx, ok := ctx.Ctx.(*gin.Context)
	if !ok {
		apperrors.FatalServerError(ctx.Ctx, errors.New("could not access the request context"))
		return
	}
	if err := auth.Client.Credentials.Clear(); err != nil {
		apperrors.FatalServerError(ctx.Ctx, err)
		return
	}
	ginCtx.Redirect(http.StatusFound, "/auth/status")
}

func AuthStatus(ctx *interfaces.ApplicationContext[any]) {
	if auth.Client.Credentials.IsExpired() {
		server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "authentication status", map[string]any{
			"authenticated": false,
		}, nil)
		return
	}
	merchantID := auth.Client.Credentials.MerchantID()
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "authentication status", map[string]any{
		"authenticated": true,
		"merchant_id":   merchantID,
	}, nil)
}
