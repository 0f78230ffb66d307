package middlewares

import (
	"cloverlink.io/application/interfaces"
	"cloverlink.io/infrastructure/useragent"
)

// UserAgentMiddleware captures the caller's user agent for request context
// and transaction logs. Unlike an API gateway, a checkout front end has no
// device handshake, so a missing header is tolerated.
func UserAgentMiddleware(ctx *interfaces.ApplicationContext[any]) (*interfaces.ApplicationContext[any], bool) {
	agent := ctx.GetHeader("User-Agent")
	if agent != nil {
		agentDetails := useragent.ParseUserAgent(*agent)
		ctx.UserAgent = *agent
		ctx.DeviceName = agentDetails.Name
	}
	return ctx, true
}
