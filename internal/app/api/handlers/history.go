package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wigglebyte/console/internal/app/api/middleware"
	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/pkg/response"
)

// @Summary      Payment history
// @Description  Lists the caller's payments, newest first.
// @Tags         History
// @Produce      json
// @Success      200  {object}  handlers.RespPayments
// @Router       /api/v1/payments [get]
func ApiListPayments(svc *history.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := svc.ListUserPayments(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(payments))
	}
}

// @Summary      Invoice data
// @Description  Returns the printable invoice payload for one of the caller's payments.
// @Tags         History
// @Produce      json
// @Param        id path string true "Payment id"
// @Success      200  {object}  handlers.RespInvoice
// @Router       /api/v1/payments/{id}/invoice [get]
func ApiGetInvoice(svc *history.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		inv, err := svc.GenerateInvoiceData(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			if errors.Is(err, history.ErrPaymentNotFound) {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(inv))
	}
}

func RegisterHistoryRoutes(r gin.IRouter, svc *history.Service) {
	r.GET("/payments", ApiListPayments(svc))
	r.GET("/payments/:id/invoice", ApiGetInvoice(svc))
}
