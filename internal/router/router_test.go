package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GreekTheDev/mybudget/internal/controllers"
	"github.com/GreekTheDev/mybudget/internal/events"
	"github.com/GreekTheDev/mybudget/internal/router"
	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zerolog.Nop()
	bus := events.NewBus()
	accounts := store.NewAccountStore(nil, log, time.Second)
	budgets := store.NewBudgetStore(nil, log, time.Second)

	api := &controllers.API{
		Accounts:      accounts,
		Budgets:       budgets,
		Transactions:  store.NewTransactionStore(nil, bus, accounts, budgets, log, time.Second),
		Goals:         store.NewGoalStore(nil, log, time.Second),
		Subscriptions: store.NewSubscriptionStore(nil, accounts, log, time.Second),
	}

	r, err := router.Router(api)
	assert.Nil(t, err)

	return r
}

func request(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	r.ServeHTTP(recorder, req)
	return recorder
}

func TestHealthz(t *testing.T) {
	recorder := request(testEngine(t), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequestID(t *testing.T) {
	recorder := request(testEngine(t), http.MethodGet, "/healthz")
	assert.NotEmpty(t, recorder.Header().Get("X-Request-Id"))
}

func TestVersion(t *testing.T) {
	recorder := request(testEngine(t), http.MethodGet, "/version")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "version")
}

func TestMetrics(t *testing.T) {
	recorder := request(testEngine(t), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, recorder.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	recorder := request(testEngine(t), http.MethodDelete, "/healthz")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestAPIRoutesMounted(t *testing.T) {
	r := testEngine(t)

	for _, path := range []string{"/v1/accounts", "/v1/budget/groups", "/v1/transactions", "/v1/goals", "/v1/subscriptions"} {
		recorder := request(r, http.MethodGet, path)
		assert.Equal(t, http.StatusOK, recorder.Code, path)
	}
}
