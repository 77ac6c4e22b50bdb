package router

import (
	"github.com/affiliate_network/handler"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(walletHandler *handler.WalletHandler,
	engineHandler *handler.EngineHandler,
	memberHandler *handler.MemberHandler) *gin.Engine {
	r := gin.Default()
	r.Use(cors.Default())

	api := r.Group("/api/v1")
	{
		member := api.Group("/member")
		{
			member.POST("/register", memberHandler.Register)
			member.GET("/:id", memberHandler.Get)
			member.POST("/:id/activate", engineHandler.Activate)
		}

		wallet := api.Group("/wallet")
		{
			wallet.GET("/balance", walletHandler.GetBalance)
			wallet.GET("/history", walletHandler.GetHistory)
			wallet.GET("/payouts", walletHandler.GetPayouts)
			wallet.POST("/transfer", walletHandler.Transfer)
		}

		admin := api.Group("/admin")
		{
			admin.POST("/run-daily-returns", engineHandler.RunDailyReturns)
			admin.POST("/run-payout-cycle", engineHandler.RunPayoutCycle)
			admin.POST("/credit", engineHandler.AdminCredit)
		}
	}

	return r
}
