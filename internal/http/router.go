package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kpestov/candy-delivery/internal/http/controller"
	"github.com/kpestov/candy-delivery/internal/metrics"
)

type Router struct {
	Controllers Controllers
	Metrics     *metrics.Metrics
}

type Controllers struct {
	CourierController controller.CourierController
	OrderController   controller.OrderController
}

func NewRouter(cs Controllers, m *metrics.Metrics) *Router {
	return &Router{
		Controllers: cs,
		Metrics:     m,
	}
}

func (r Router) SetupRoutes(e *echo.Echo) {

	e.GET("/ping", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "pong")
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		r.Metrics.Registry,
		promhttp.HandlerOpts{},
	)))

	limiter := middleware.RateLimiterWithConfig(r.RatelimiterConfig())

	// courier methods
	e.GET("/couriers", r.Controllers.CourierController.GetAll, limiter)
	e.POST("/couriers", r.Controllers.CourierController.Create, limiter)
	e.GET("/couriers/:courier_id", r.Controllers.CourierController.GetById, limiter)
	e.PATCH("/couriers/:courier_id", r.Controllers.CourierController.Patch, limiter)

	// order methods
	e.GET("/orders", r.Controllers.OrderController.GetAll, limiter)
	e.POST("/orders", r.Controllers.OrderController.Create, limiter)
	e.GET("/orders/:order_id", r.Controllers.OrderController.GetById, limiter)
	e.POST("/orders/assign", r.Controllers.OrderController.Assign, limiter)
	e.POST("/orders/complete", r.Controllers.OrderController.Complete, limiter)
}

func (r Router) RatelimiterConfig() middleware.RateLimiterConfig {
	return middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: 10, Burst: 10, ExpiresIn: time.Second},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			id := ctx.RealIP()
			return id, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, nil)
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			r.Metrics.RateLimitExceeded.Inc()
			return context.JSON(http.StatusTooManyRequests, nil)
		},
	}
}
