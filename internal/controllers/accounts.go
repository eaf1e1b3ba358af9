package controllers

import (
	"net/http"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (api *API) registerAccountRoutes(r *gin.RouterGroup) {
	r.GET("", api.listAccounts)
	r.POST("", api.createAccount)
	r.PATCH("/:id", api.updateAccount)
	r.PATCH("/:id/balance", api.updateAccountBalance)
	r.DELETE("/:id", api.deleteAccount)
}

// AccountEditable are the account fields a client can set.
type AccountEditable struct {
	Name    string             `json:"name" binding:"required"`
	Type    models.AccountType `json:"type" binding:"required"`
	Balance decimal.Decimal    `json:"balance"`
}

func (api *API) listAccounts(c *gin.Context) {
	c.JSON(http.StatusOK, api.Accounts.Snapshot())
}

func (api *API) createAccount(c *gin.Context) {
	var editable AccountEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	account, err := api.Accounts.Add(c.Request.Context(), editable.Name, editable.Type, editable.Balance)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

func (api *API) updateAccount(c *gin.Context) {
	var editable struct {
		Name string             `json:"name" binding:"required"`
		Type models.AccountType `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Accounts.Edit(c.Request.Context(), c.Param("id"), editable.Name, editable.Type)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) updateAccountBalance(c *gin.Context) {
	var editable struct {
		Balance decimal.Decimal `json:"balance"`
	}
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Accounts.UpdateBalance(c.Request.Context(), c.Param("id"), editable.Balance)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) deleteAccount(c *gin.Context) {
	if err := api.Accounts.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
