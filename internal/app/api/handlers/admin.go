package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/wigglebyte/console/internal/app/service/history"
	subsvc "github.com/wigglebyte/console/internal/app/service/subscription"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/response"
	"github.com/wigglebyte/console/pkg/types"
)

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type PaymentItem struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	PlanType      types.PlanType      `json:"plan_type"`
	Amount        float64             `json:"amount"`
	Currency      string              `json:"currency"`
	BillingCycle  types.BillingCycle  `json:"billing_cycle"`
	PaymentMethod string              `json:"payment_method"`
	TransactionID string              `json:"transaction_id"`
	OrderID       string              `json:"order_id"`
	Status        types.PaymentStatus `json:"status"`
	PaymentDate   time.Time           `json:"payment_date"`
	InvoiceNumber string              `json:"invoice_number"`
	CreatedAt     time.Time           `json:"created_at"`
}

func toPaymentItem(m *models.PaymentHistory) *PaymentItem {
	item := &PaymentItem{
		ID:            m.ID,
		UserID:        m.UserID,
		PlanType:      m.PlanType,
		Amount:        m.Amount,
		Currency:      m.Currency,
		BillingCycle:  m.BillingCycle,
		PaymentMethod: m.PaymentMethod,
		TransactionID: m.TransactionID,
		Status:        m.Status,
		PaymentDate:   m.PaymentDate,
		InvoiceNumber: m.InvoiceNumber,
		CreatedAt:     m.CreatedAt,
	}
	if extra := m.Extra.Data(); extra != nil {
		item.OrderID = extra.OrderID
	}
	return item
}

type ListPaymentsResponse struct {
	Items []*PaymentItem `json:"items"`
	Total int64          `json:"total"`
}

// @Summary      List Payments (Admin)
// @Description  Retrieves a paginated and filterable list of all payments.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListPaymentsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  handlers.RespListPayments
// @Router       /api/v1/admin/list_payments [post]
func ApiAdminListPayments(svc *history.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanPayments(c.Request.Context(), &history.ScanPaymentsRequest{
			Filters: req.Filters, From: req.From, Size: req.Size,
			SortBy: req.SortBy, SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		items := lo.Map(res.Items, func(it *models.PaymentHistory, _ int) *PaymentItem { return toPaymentItem(it) })
		c.JSON(http.StatusOK, response.OKT(&ListPaymentsResponse{Items: items, Total: res.Total}))
	}
}

type RevenueSummaryRequest struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// @Summary      Revenue Summary (Admin)
// @Description  Aggregates completed payments over a date range.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body RevenueSummaryRequest true "Aggregation window"
// @Success      200  {object}  handlers.RespRevenueSummary
// @Router       /api/v1/admin/revenue_summary [post]
func ApiRevenueSummary(svc *history.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RevenueSummaryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if req.To.IsZero() {
			req.To = time.Now()
		}
		res, err := svc.Revenue(c.Request.Context(), req.From, req.To)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Expire Overdue Subscriptions (Admin)
// @Description  Runs the expiry sweep immediately and reports how many rows changed.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespExpireOverdue
// @Router       /api/v1/admin/expire_overdue [post]
func ApiExpireOverdue(sub *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := sub.ExpireOverdue(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(gin.H{"expired": n}))
	}
}

func RegisterAdminRoutes(r gin.IRouter, hist *history.Service, sub *subsvc.Service) {
	r.POST("/list_payments", ApiAdminListPayments(hist))
	r.POST("/revenue_summary", ApiRevenueSummary(hist))
	r.POST("/expire_overdue", ApiExpireOverdue(sub))
}
