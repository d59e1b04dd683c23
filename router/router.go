package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inj-staker/controller"
	"inj-staker/service"
)

func Init(s service.IService) *gin.Engine {
	r := gin.Default()
	group := r.Group("")

	group.Use(Cors())

	group.GET("/stakerInfo", controller.StakerInfoEndpoint(s))
	group.GET("/sharePrice", controller.SharePriceEndpoint(s))
	group.GET("/validators", controller.ValidatorsEndpoint(s))
	group.GET("/totalStaked", controller.TotalStakedEndpoint(s))
	group.GET("/totalRewards", controller.TotalRewardsEndpoint(s))
	group.GET("/totalAssets", controller.TotalAssetsEndpoint(s))
	group.GET("/totalSupply", controller.TotalSupplyEndpoint(s))
	group.GET("/balance", controller.BalanceEndpoint(s))
	group.GET("/maxWithdraw", controller.MaxWithdrawEndpoint(s))
	group.GET("/claimableAmount", controller.ClaimableAmountEndpoint(s))
	group.GET("/claimableAssets", controller.ClaimableAssetsEndpoint(s))
	group.GET("/allocations", controller.AllocationsEndpoint(s))
	group.GET("/totalAllocated", controller.TotalAllocatedEndpoint(s))
	group.GET("/distributionAmounts", controller.DistributionAmountsEndpoint(s))
	group.GET("/userStatus", controller.UserStatusEndpoint(s))
	group.GET("/events", controller.EventHistoryEndpoint(s))
	return r
}

func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
			c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
			c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		if method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
		}
		c.Next()
	}
}
