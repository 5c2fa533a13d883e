package controller

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kpestov/candy-delivery/internal/entity"
	"github.com/kpestov/candy-delivery/internal/usecase/courier"
)

type CourierController struct {
	uc *courier.CourierUseCase
}

type CourierDto struct {
	CourierId    uint64   `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int32  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

func NewCourierController(uc *courier.CourierUseCase) CourierController {
	return CourierController{
		uc: uc,
	}
}

func courierToDto(c *entity.Courier) CourierDto {

	wh := []string{}
	for _, t := range c.WorkingHours {
		wh = append(wh, t.String())
	}

	return CourierDto{
		CourierId:    c.ID,
		CourierType:  string(c.CourierType),
		Regions:      c.Regions,
		WorkingHours: wh,
	}
}

// ====================================
// ========== POST /couriers ==========
// ====================================

type CourierCreateRequest struct {
	Data []CourierRequestCreateDto `json:"data" validate:"required,min=1,dive"`
}

type CourierRequestCreateDto struct {
	CourierId    uint64   `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int32  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

type CourierCreateResponse struct {
	Couriers []CreatedItem `json:"couriers"`
}

type CreatedItem struct {
	Id uint64 `json:"id"`
}

func (c *CourierController) Create(ctx echo.Context) error {

	var req CourierCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	if err := ctx.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	newCouriers := []courier.CourierToCreateDTO{}
	for _, newCourier := range req.Data {

		newCouriers = append(newCouriers, courier.CourierToCreateDTO{
			CourierID:    newCourier.CourierId,
			CourierType:  newCourier.CourierType,
			Regions:      newCourier.Regions,
			WorkingHours: newCourier.WorkingHours,
		})
	}

	savedCouriers, err := c.uc.CreateCouriers(ctx.Request().Context(), newCouriers)
	if err != nil {
		return err
	}

	res := CourierCreateResponse{Couriers: []CreatedItem{}}
	for _, newCourier := range *savedCouriers {
		res.Couriers = append(res.Couriers, CreatedItem{Id: newCourier.ID})
	}

	return ctx.JSON(http.StatusCreated, res)
}

// ====================================

// ===================================
// ========== GET /couriers ==========
// ===================================

type CourierGetAllReponse struct {
	Couriers []CourierDto `json:"couriers"`
	Offset   int32        `json:"offset"`
	Limit    int32        `json:"limit"`
}

func (c *CourierController) GetAll(ctx echo.Context) error {

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

	couriers, err := c.uc.PaginatedGetAll(ctx.Request().Context(), int32(offset), int32(limit))
	if err != nil {
		return err
	}

	res := CourierGetAllReponse{
		Couriers: []CourierDto{},
	}
	for i := range *couriers {
		res.Couriers = append(res.Couriers, courierToDto(&(*couriers)[i]))
	}
	res.Offset = int32(offset)
	res.Limit = int32(limit)

	return ctx.JSON(200, res)
}

// ===================================

// ================================================
// ========== GET /couriers/{courier_id} ==========
// ================================================

type CourierGetByIdResponse struct {
	CourierDto
	Rating   *float64 `json:"rating,omitempty"`
	Earnings *int     `json:"earnings,omitempty"`
}

func (c *CourierController) GetById(ctx echo.Context) error {

	courierId, err := strconv.Atoi(ctx.Param("courier_id"))
	if err != nil || courierId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":courier_id must be valid integer")
	}

	courier, meta, err := c.uc.GetById(ctx.Request().Context(), uint64(courierId))
	if err != nil {
		return err
	}

	res := CourierGetByIdResponse{
		CourierDto: courierToDto(courier),
	}
	res.Rating = meta.Rating
	res.Earnings = meta.Earnings

	return ctx.JSON(200, res)
}

// ================================================

// ==================================================
// ========== PATCH /couriers/{courier_id} ==========
// ==================================================

type CourierPatchRequest struct {
	CourierType  *string  `json:"courier_type"`
	Regions      []int32  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

func (c *CourierController) Patch(ctx echo.Context) error {

	courierId, err := strconv.Atoi(ctx.Param("courier_id"))
	if err != nil || courierId <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, ":courier_id must be valid integer")
	}

	var req CourierPatchRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err)
	}

	patch := courier.CourierPatchDTO{
		CourierType:  req.CourierType,
		Regions:      req.Regions,
		WorkingHours: req.WorkingHours,
	}

	updated, err := c.uc.Patch(ctx.Request().Context(), uint64(courierId), patch, time.Now())
	if err != nil {
		return err
	}

	return ctx.JSON(200, courierToDto(updated))
}
