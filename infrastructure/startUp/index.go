package startup

import (
	"cloverlink.io/application/usecases/payment"
	activitylog "cloverlink.io/infrastructure/activity_log"
	"cloverlink.io/infrastructure/auth"
	"cloverlink.io/infrastructure/credentials"
	"cloverlink.io/infrastructure/logger"
	clover "cloverlink.io/infrastructure/payments/clover"
)

// Used to start services such as loggers, stores and remote clients.
func StartServices() {
	logger.InitializeLogger()
	activitylog.InitialiseActivityLog()
	credentials.InitialiseStore()
	clover.InitialisePaymentProcessor(activitylog.Instance)
	auth.InitialiseOAuthClient(credentials.Instance, activitylog.Instance)
	payment.InitialiseCheckoutProcessor(credentials.Instance, clover.Processor, activitylog.Instance)
}

// Used to clean up after services that have been shutdown.
func CleanUpServices() {
	logger.Logger.Sync()
}
