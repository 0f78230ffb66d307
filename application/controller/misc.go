package controller

import (
	"net/http"
	"time"

	"cloverlink.io/application/interfaces"
	"cloverlink.io/infrastructure/credentials"
	server_response "cloverlink.io/infrastructure/serverResponse"
)

func HealthCheck(ctx *interfaces.ApplicationContext[any]) {
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "ok", map[string]any{
		"status":        "ok",
		"timestamp":     time.Now().Format(time.RFC3339),
		"authenticated": !credentials.Instance.IsExpired(),
	}, nil)
}
