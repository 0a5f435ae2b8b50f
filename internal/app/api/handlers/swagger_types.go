package handlers

import (
	"github.com/wigglebyte/console/internal/app/service/checkout"
	"github.com/wigglebyte/console/internal/app/service/history"
	"github.com/wigglebyte/console/internal/models"
	"github.com/wigglebyte/console/pkg/response"
	"github.com/wigglebyte/console/pkg/types"
)

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

// RespResult wraps a policy decision result in the standard envelope.
type RespResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.Result             `json:"data"`
}

// RespSubscription wraps the current subscription and button states.
type RespSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subscriptionResp         `json:"data"`
}

// RespButtonStates wraps the pricing-page button states.
type RespButtonStates struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.ButtonStates       `json:"data"`
}

// RespSubscriptionStatus wraps the download-enabled status.
type RespSubscriptionStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subscriptionStatusResp   `json:"data"`
}

// RespPayments wraps the caller's payment history list.
type RespPayments struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []*models.PaymentHistory `json:"data"`
}

// RespInvoice wraps the printable invoice payload.
type RespInvoice struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    history.InvoiceData      `json:"data"`
}

// RespCheckout wraps the checkout completion result.
type RespCheckout struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    checkout.CompleteResult  `json:"data"`
}

// RespUser wraps a user profile.
type RespUser struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.User              `json:"data"`
}

// RespListPayments wraps the admin payment listing in the standard envelope.
type RespListPayments struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ListPaymentsResponse     `json:"data"`
}

// RespRevenueSummary wraps the revenue aggregation.
type RespRevenueSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    history.RevenueSummary   `json:"data"`
}

// RespExpireOverdue wraps the manual expiry sweep count.
type RespExpireOverdue struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]int64         `json:"data"`
}
