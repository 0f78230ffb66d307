package routev1

import (
	apperrors "cloverlink.io/application/appErrors"
	"cloverlink.io/application/controller"
	"cloverlink.io/application/controller/dto"
	"cloverlink.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func PaymentRouter(router *gin.RouterGroup) {
	router.POST("/pay", func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		var body dto.PaymentRequestDTO
		if err := ctx.ShouldBindJSON(&body); err != nil {
			apperrors.ErrorProcessingPayload(ctx)
			return
		}
		controller.Pay(&interfaces.ApplicationContext[dto.PaymentRequestDTO]{
			Ctx:       ctx,
			Body:      &body,
			UserAgent: appContext.UserAgent,
		})
	})

	router.GET("/transactions", func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		controller.Transactions(&interfaces.ApplicationContext[any]{
			Ctx:       ctx,
			UserAgent: appContext.UserAgent,
		})
	})
}
