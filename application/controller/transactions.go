package controller

import (
	"net/http"

	"cloverlink.io/application/interfaces"
	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/logger"
	server_response "cloverlink.io/infrastructure/serverResponse"
)

const recentTransactionCount = 10

func Transactions(ctx *interfaces.ApplicationContext[any]) {
	transactions, skipped := activitylog.Instance.RecentTransactions(recentTransactionCount)
	if skipped > 0 {
		logger.Warning("transaction history is missing entries", logger.LoggerOptions{
			Key:  "skipped",
			Data: skipped,
		})
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "recent transactions", map[string]any{
		"transactions": transactions,
		"skipped":      skipped,
	}, nil)
}
