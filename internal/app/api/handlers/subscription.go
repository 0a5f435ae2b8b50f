package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wigglebyte/console/internal/app/api/middleware"
	"github.com/wigglebyte/console/internal/app/service/subscription"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/response"
	"github.com/wigglebyte/console/pkg/types"
)

type subscriptionResp struct {
	Subscription *models.Subscription `json:"subscription"`
	Buttons      types.ButtonStates   `json:"buttons"`
}

// @Summary      Current subscription
// @Description  Returns the caller's subscription record (null when none exists) together with the derived plan-button states.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscription [get]
func ApiGetSubscription(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := middleware.UserID(c)
		sub, err := svc.GetSubscription(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(subscriptionResp{
			Subscription: sub,
			Buttons:      subscription.ButtonStates(sub, time.Now()),
		}))
	}
}

type subscriptionStatusResp struct {
	DownloadEnabled bool `json:"download_enabled"`
}

// @Summary      Subscription status
// @Description  Checks whether the caller's subscription is currently active. An overdue subscription is expired and persisted in the same call.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespSubscriptionStatus
// @Router       /api/v1/subscription/status [get]
func ApiSubscriptionStatus(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		active, err := svc.CheckSubscriptionStatus(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(subscriptionStatusResp{DownloadEnabled: active}))
	}
}

// @Summary      Start free trial
// @Description  Activates the 7-day free trial. Rejected when the trial was already used or another plan is active.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespResult
// @Router       /api/v1/subscription/free-trial [post]
func ApiStartFreeTrial(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := svc.CreateFreeTrial(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Plan button states
// @Description  Returns which pricing-page buttons are disabled for the caller.
// @Tags         Subscription
// @Produce      json
// @Success      200  {object}  handlers.RespButtonStates
// @Router       /api/v1/subscription/buttons [get]
func ApiButtonStates(svc *subscription.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := svc.GetSubscription(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(subscription.ButtonStates(sub, time.Now())))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subscription.Service) {
	r.GET("/subscription", ApiGetSubscription(svc))
	r.GET("/subscription/status", ApiSubscriptionStatus(svc))
	r.GET("/subscription/buttons", ApiButtonStates(svc))
	r.POST("/subscription/free-trial", ApiStartFreeTrial(svc))
}
