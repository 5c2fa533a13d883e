package controller

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/internal/usecase/order"
)

type OrderController struct {
	uc *order.OrderUseCase
}

type OrderDto struct {
	ID            uint64     `json:"order_id"`
	Weight        float64    `json:"weight"`
	Region        *int32     `json:"region"`
	DeliveryHours []string   `json:"delivery_hours"`
	AssignTime    *time.Time `json:"assign_time,omitempty"`
	CompleteTime  *time.Time `json:"complete_time,omitempty"`
}

func NewOrderController(uc *order.OrderUseCase) OrderController {
	return OrderController{
		uc: uc,
	}
}

func orderToDto(o *entity.Order) OrderDto {

	dh := []string{}
	for _, t := range o.DeliveryHours {
		dh = append(dh, t.String())
	}

	return OrderDto{
		ID:            o.ID,
		Weight:        o.Weight,
		Region:        o.RegionID,
		DeliveryHours: dh,
		AssignTime:    o.AssignTime,
		CompleteTime:  o.CompleteTime,
	}
}

// ====================================
// ========== POST /orders ============
// ====================================

type OrderCreateRequest struct {
	Data []OrderRequestCreateDto `json:"data" validate:"required,min=1,dive"`
}

type OrderRequestCreateDto struct {
	OrderId       uint64   `json:"order_id"`
	Weight        float64  `json:"weight"`
	Region        int32    `json:"region"`
	DeliveryHours []string `json:"delivery_hours"`
}

type OrderCreateResponse struct {
	Orders []CreatedItem `json:"orders"`
}

func (c *OrderController) Create(ctx echo.Context) error {

	var req OrderCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := ctx.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	newOrders := []order.OrderToCreateDTO{}
	for _, newOrder := range req.Data {

		newOrders = append(newOrders, order.OrderToCreateDTO{
			OrderID:       newOrder.OrderId,
			Weight:        newOrder.Weight,
			Region:        newOrder.Region,
			DeliveryHours: newOrder.DeliveryHours,
		})
	}

	savedOrders, err := c.uc.CreateOrders(ctx.Request().Context(), newOrders)
	if err != nil {
		return err
	}

	res := OrderCreateResponse{Orders: []CreatedItem{}}
	for _, newOrder := range *savedOrders {
		res.Orders = append(res.Orders, CreatedItem{Id: newOrder.ID})
	}

	return ctx.JSON(http.StatusCreated, res)
}

// ====================================

// ===================================
// ========== GET /orders ============
// ===================================

func (c *OrderController) GetAll(ctx echo.Context) error {

	var limit int = 1
	var offset int = 0
	var err error

	limitParam := ctx.QueryParam("limit")
	if limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 0 || limit > math.MaxInt32 {
			return echo.NewHTTPError(400, "Invalid 'limit' param")
		}
	}

	offsetParam := ctx.QueryParam("offset")
	if offsetParam != "" {
		offset, err = strconv.Atoi(offsetParam)
		if err != nil || offset < 0 || offset > math.MaxInt32 {
			return echo.NewHTTPError(400, "Invalid 'offset' param")
		}
	}

	orders, err := c.uc.PaginatedGetAll(ctx.Request().Context(), int32(offset), int32(limit))
	if err != nil {
		return err
	}

	res := []OrderDto{}
	for i := range *orders {
		res = append(res, orderToDto(&(*orders)[i]))
	}

	return ctx.JSON(200, res)
}

// ===================================

// =============================================
// ========== GET /orders/:order_id ============
// =============================================

func (c *OrderController) GetById(ctx echo.Context) error {

	orderId, err := strconv.Atoi(ctx.Param("order_id"))
	if err != nil || orderId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":order_id must be valid integer")
	}

	order, err := c.uc.GetById(ctx.Request().Context(), uint64(orderId))
	if err != nil {
		return err
	}

	return ctx.JSON(200, orderToDto(order))
}

// =============================================

// ===========================================
// ========== POST /orders/assign ============
// ===========================================

type OrderAssignRequest struct {
	CourierId uint64 `json:"courier_id" validate:"required"`
}

type OrderAssignResponse struct {
	Orders     []CreatedItem `json:"orders"`
	AssignTime *time.Time    `json:"assign_time,omitempty"`
}

func (c *OrderController) Assign(ctx echo.Context) error {

	var req OrderAssignRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := ctx.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	result, err := c.uc.Assign(ctx.Request().Context(), req.CourierId, time.Now())
	if err != nil {
		return err
	}

	res := OrderAssignResponse{
		Orders:     []CreatedItem{},
		AssignTime: result.AssignTime,
	}
	for _, o := range result.Orders {
		res.Orders = append(res.Orders, CreatedItem{Id: o.ID})
	}

	return ctx.JSON(200, res)
}

// ===========================================

// =============================================
// ========== POST /orders/complete ============
// =============================================

type OrderCompleteRequest struct {
	CourierId    uint64    `json:"courier_id" validate:"required"`
	OrderId      uint64    `json:"order_id" validate:"required"`
	CompleteTime time.Time `json:"complete_time" validate:"required"`
}

type OrderCompleteResponse struct {
	OrderId uint64 `json:"order_id"`
}

func (c *OrderController) Complete(ctx echo.Context) error {

	var req OrderCompleteRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := ctx.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	orderId, err := c.uc.Complete(ctx.Request().Context(), order.OrderToCompleteDTO{
		CourierID:    req.CourierId,
		OrderID:      req.OrderId,
		CompleteTime: req.CompleteTime,
	})
	if err != nil {
		return err
	}

	return ctx.JSON(200, OrderCompleteResponse{OrderId: orderId})
}
