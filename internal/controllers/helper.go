// Package controllers exposes the stores over HTTP.
package controllers

import (
	"errors"
	"net/http"

	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/gin-gonic/gin"
)

// API bundles the stores the handlers operate on.
type API struct {
	Accounts      *store.AccountStore
	Budgets       *store.BudgetStore
	Transactions  *store.TransactionStore
	Goals         *store.GoalStore
	Subscriptions *store.SubscriptionStore
}

// RegisterRoutes registers all resource routes with the RouterGroup that is
// passed.
func (api *API) RegisterRoutes(r *gin.RouterGroup) {
	api.registerAccountRoutes(r.Group("/accounts"))
	api.registerBudgetRoutes(r.Group("/budget"))
	api.registerTransactionRoutes(r.Group("/transactions"))
	api.registerGoalRoutes(r.Group("/goals"))
	api.registerSubscriptionRoutes(r.Group("/subscriptions"))
	r.GET("/summary", api.getSummary)
	r.POST("/refresh", api.refreshAll)
}

// httpError is the error response body.
type httpError struct {
	Error string `json:"error"`
}

// status maps a store error to an HTTP status code.
func status(err error) int {
	switch {
	case errors.Is(err, store.ErrNoActiveSession):
		return http.StatusUnauthorized
	case errors.Is(err, store.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrInvalidReference):
		return http.StatusNotFound
	case errors.Is(err, store.ErrMutationInFlight):
		return http.StatusConflict
	case errors.Is(err, store.ErrPartialCascade):
		return http.StatusMultiStatus
	default:
		return http.StatusBadGateway
	}
}

// abortWithError writes the error response for a failed store call.
func abortWithError(c *gin.Context, err error) {
	c.JSON(status(err), httpError{Error: err.Error()})
}

// refreshAll re-pulls every store from the gateway.
func (api *API) refreshAll(c *gin.Context) {
	ctx := c.Request.Context()

	for _, load := range []func() error{
		func() error { return api.Accounts.Refresh(ctx) },
		func() error { return api.Budgets.Refresh(ctx) },
		func() error { return api.Transactions.Load(ctx) },
		func() error { return api.Goals.Load(ctx) },
		func() error { return api.Subscriptions.Load(ctx) },
	} {
		if err := load(); err != nil {
			abortWithError(c, err)
			return
		}
	}

	c.Status(http.StatusNoContent)
}
