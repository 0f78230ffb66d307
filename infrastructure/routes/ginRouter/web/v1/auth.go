package routev1

import (
	"cloverlink.io/application/controller"
	"cloverlink.io/application/controller/dto"
	"cloverlink.io/application/interfaces"
	"github.com/gin-gonic/gin"
)

func AuthRouter(router *gin.RouterGroup) {
	authRouter := router.Group("/auth")
	{
		authRouter.GET("/login", func(ctx *gin.Context) {
			controller.Login(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		authRouter.GET("/callback", func(ctx *gin.Context) {
			controller.Callback(&interfaces.ApplicationContext[dto.OAuthCallbackDTO]{
				Ctx: ctx,
				Body: &dto.OAuthCallbackDTO{
					Code:       ctx.Query("code"),
					MerchantID: ctx.Query("merchant_id"),
					State:      ctx.Query("state"),
					Error:      ctx.Query("error"),
				},
			})
		})

		authRouter.GET("/logout", func(ctx *gin.Context) {
			controller.Logout(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})

		authRouter.GET("/status", func(ctx *gin.Context) {
			controller.AuthStatus(&interfaces.ApplicationContext[any]{
				Ctx: ctx,
			})
		})
	}
}
