package controller

import (
	"net/http"
	"strconv"

	sdkmath "cosmossdk.io/math"
	"github.com/gin-gonic/gin"

	"inj-staker/logger"
	"inj-staker/service"
	"inj-staker/types"
	"inj-staker/util"
)

const (
	ResponseCodeOk          = 200
	ResponseCodeParamsError = 50001
)

type Response struct {
	Code  int         `json:"code"`
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data"`
	Total int         `json:"total"`
}

type Endpoint func(c *gin.Context)

func StakerInfoEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := s.StakerInfo()
		if err != nil {
			logger.Logger.Errorf("StakerInfo endpoint error : %s", err)
			return
		}
		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: info,
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type SharePriceResp struct {
	Numerator   string `json:"numerator"`
	Denominator string `json:"denominator"`
	Rate        string `json:"rate"`
}

func SharePriceEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		price, err := s.SharePrice()
		if err != nil {
			logger.Logger.Errorf("SharePrice endpoint error : %s", err)
			return
		}
		// INJ per TruINJ in human units
		rate := util.ToNumeric(price.Num.BigInt()).
			Div(util.ToNumeric(price.Denom.BigInt())).
			Shift(-18)
		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: SharePriceResp{
				Numerator:   price.Num.String(),
				Denominator: price.Denom.String(),
				Rate:        rate.String(),
			},
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type ValidatorResp struct {
	Addr        string `json:"addr"`
	TotalStaked string `json:"total_staked"`
	State       string `json:"state"`
}

func ValidatorsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		validators, err := s.Validators()
		if err != nil {
			logger.Logger.Errorf("Validators endpoint error : %s", err)
			return
		}

		result := []*ValidatorResp{}
		for _, validator := range validators {
			result = append(result, &ValidatorResp{
				Addr:        validator.Addr,
				TotalStaked: validator.TotalStaked.String(),
				State:       validator.State,
			})
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: result,
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

func TotalStakedEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		amountEndpoint(c, "TotalStaked", s.TotalStaked)
	}
}

func TotalRewardsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		amountEndpoint(c, "TotalRewards", s.TotalRewards)
	}
}

func TotalAssetsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		amountEndpoint(c, "TotalAssets", s.TotalAssets)
	}
}

func TotalSupplyEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		amountEndpoint(c, "TotalSupply", s.TotalSupply)
	}
}

func BalanceEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userAmountEndpoint(c, "BalanceOf", s.BalanceOf)
	}
}

func MaxWithdrawEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userAmountEndpoint(c, "MaxWithdraw", s.MaxWithdraw)
	}
}

func ClaimableAmountEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userAmountEndpoint(c, "ClaimableAmount", s.ClaimableAmount)
	}
}

type ClaimResp struct {
	Amount    string `json:"amount"`
	ReleaseAt int64  `json:"release_at"`
}

func ClaimableAssetsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exist := c.GetQuery("user")
		if !exist {
			paramsError(c)
			return
		}

		claims, err := s.ClaimableAssets(user)
		if err != nil {
			logger.Logger.Errorf("ClaimableAssets endpoint error : %s", err)
			return
		}

		result := []*ClaimResp{}
		for _, claim := range claims {
			result = append(result, &ClaimResp{
				Amount:    claim.Amount.String(),
				ReleaseAt: claim.ReleaseAt,
			})
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: result,
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type AllocationResp struct {
	Allocator       string `json:"allocator"`
	Recipient       string `json:"recipient"`
	InjAmount       string `json:"inj_amount"`
	SharePriceNum   string `json:"share_price_num"`
	SharePriceDenom string `json:"share_price_denom"`
}

func allocationResp(allocation *types.Allocation) *AllocationResp {
	return &AllocationResp{
		Allocator:       allocation.Allocator,
		Recipient:       allocation.Recipient,
		InjAmount:       allocation.InjAmount.String(),
		SharePriceNum:   allocation.SharePriceNum.String(),
		SharePriceDenom: allocation.SharePriceDenom.String(),
	}
}

func AllocationsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exist := c.GetQuery("user")
		if !exist {
			paramsError(c)
			return
		}

		allocations, err := s.Allocations(user)
		if err != nil {
			logger.Logger.Errorf("Allocations endpoint error : %s", err)
			return
		}

		result := []*AllocationResp{}
		for _, allocation := range allocations {
			result = append(result, allocationResp(allocation))
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: result,
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

func TotalAllocatedEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exist := c.GetQuery("user")
		if !exist {
			paramsError(c)
			return
		}

		total, err := s.TotalAllocated(user)
		if err != nil {
			logger.Logger.Errorf("TotalAllocated endpoint error : %s", err)
			return
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: allocationResp(total),
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type DistributionAmountsResp struct {
	InjAmount       string `json:"inj_amount"`
	TruinjAmount    string `json:"truinj_amount"`
	DistributionFee string `json:"distribution_fee"`
}

func DistributionAmountsEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		distributor, exist := c.GetQuery("distributor")
		if !exist {
			paramsError(c)
			return
		}
		recipient, _ := c.GetQuery("recipient")

		amounts, err := s.DistributionAmounts(distributor, recipient)
		if err != nil {
			logger.Logger.Errorf("DistributionAmounts endpoint error : %s", err)
			return
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: DistributionAmountsResp{
				InjAmount:       amounts.InjAmount.String(),
				TruinjAmount:    amounts.TruinjAmount.String(),
				DistributionFee: amounts.DistributionFee.String(),
			},
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type UserStatusResp struct {
	Status        string `json:"status"`
	IsWhitelisted bool   `json:"is_whitelisted"`
	IsBlacklisted bool   `json:"is_blacklisted"`
	IsAgent       bool   `json:"is_agent"`
	IsOwner       bool   `json:"is_owner"`
}

func UserStatusEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exist := c.GetQuery("user")
		if !exist {
			paramsError(c)
			return
		}

		status, err := s.UserStatus(user)
		if err != nil {
			logger.Logger.Errorf("UserStatus endpoint error : %s", err)
			return
		}
		isAgent, err := s.IsAgent(user)
		if err != nil {
			logger.Logger.Errorf("IsAgent endpoint error : %s", err)
			return
		}
		isOwner, err := s.IsOwner(user)
		if err != nil {
			logger.Logger.Errorf("IsOwner endpoint error : %s", err)
			return
		}

		resp := &Response{
			Code: ResponseCodeOk,
			Msg:  "",
			Data: UserStatusResp{
				Status:        status.String(),
				IsWhitelisted: status == types.Whitelisted,
				IsBlacklisted: status == types.Blacklisted,
				IsAgent:       isAgent,
				IsOwner:       isOwner,
			},
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

type EventResp struct {
	Type       string                 `json:"type"`
	Attributes []types.EventAttribute `json:"attributes"`
	Time       int64                  `json:"time"`
}

func EventHistoryEndpoint(s service.IService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limitStr, _ := c.GetQuery("limit")
		limit, _ := strconv.Atoi(limitStr)
		offsetStr, _ := c.GetQuery("offset")
		offset, _ := strconv.Atoi(offsetStr)

		ascStr, _ := c.GetQuery("asc")
		asc := false
		if ascStr == "true" {
			asc = true
		}

		records, total, err := s.EventHistory(validLimit(limit, 20, 100), validOffset(offset), asc)
		if err != nil {
			logger.Logger.Errorf("EventHistory endpoint error : %s", err)
			return
		}

		result := []*EventResp{}
		for _, record := range records {
			result = append(result, &EventResp{
				Type:       record.Type,
				Attributes: record.Attributes,
				Time:       record.Time.Unix(),
			})
		}

		resp := &Response{
			Code:  ResponseCodeOk,
			Msg:   "",
			Data:  result,
			Total: total,
		}
		c.JSON(http.StatusOK, resp)
		return
	}
}

func amountEndpoint(c *gin.Context, name string, fn func() (sdkmath.Int, error)) {
	amount, err := fn()
	if err != nil {
		logger.Logger.Errorf("%s endpoint error : %s", name, err)
		return
	}
	resp := &Response{
		Code: ResponseCodeOk,
		Msg:  "",
		Data: amount.String(),
	}
	c.JSON(http.StatusOK, resp)
}

func userAmountEndpoint(c *gin.Context, name string, fn func(user string) (sdkmath.Int, error)) {
	user, exist := c.GetQuery("user")
	if !exist {
		paramsError(c)
		return
	}
	amount, err := fn(user)
	if err != nil {
		logger.Logger.Errorf("%s endpoint error : %s", name, err)
		return
	}
	resp := &Response{
		Code: ResponseCodeOk,
		Msg:  "",
		Data: amount.String(),
	}
	c.JSON(http.StatusOK, resp)
}

func paramsError(c *gin.Context) {
	resp := &Response{
		Code: ResponseCodeParamsError,
		Msg:  "",
		Data: "",
	}
	c.JSON(http.StatusOK, resp)
}

func validLimit(originLimit, defaultLimit, maxLimit int) int {
	if originLimit == 0 {
		return defaultLimit
	}
	if originLimit > maxLimit {
		return maxLimit
	}
	return originLimit
}

func validOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
