package controllers

import (
	"net/http"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (api *API) registerSubscriptionRoutes(r *gin.RouterGroup) {
	r.GET("", api.listSubscriptions)
	r.POST("", api.createSubscription)
	r.PATCH("/:id", api.updateSubscription)
	r.DELETE("/:id", api.deleteSubscription)
}

// SubscriptionEditable are the subscription fields a client can set.
type SubscriptionEditable struct {
	Name       string          `json:"name" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	BillingDay int             `json:"billingDay" binding:"required"`
	AccountID  string          `json:"accountId"`
	Active     bool            `json:"active"`
}

func (e SubscriptionEditable) model() models.Subscription {
	return models.Subscription{
		Name:       e.Name,
		Amount:     e.Amount,
		BillingDay: e.BillingDay,
		AccountID:  e.AccountID,
		Active:     e.Active,
	}
}

func (api *API) listSubscriptions(c *gin.Context) {
	c.JSON(http.StatusOK, api.Subscriptions.Snapshot())
}

func (api *API) createSubscription(c *gin.Context) {
	var editable SubscriptionEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	subscription, err := api.Subscriptions.Add(c.Request.Context(), editable.model())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, subscription)
}

func (api *API) updateSubscription(c *gin.Context) {
	var editable SubscriptionEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Subscriptions.Edit(c.Request.Context(), c.Param("id"), editable.model())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) deleteSubscription(c *gin.Context) {
	if err := api.Subscriptions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
