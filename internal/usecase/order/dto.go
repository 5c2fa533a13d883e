package order

import (
	"time"

	"github.com/kpestov/candy-delivery/internal/entity"
)

type OrderToCreateDTO struct {
	OrderID       uint64   `json:"order_id" validate:"required"`
	Weight        float64  `json:"weight" validate:"required,order_weight"`
	Region        int32    `json:"region" validate:"required,min=1"`
	DeliveryHours []string `json:"delivery_hours" validate:"required,min=1,unique,each_HH_MM_HH_MM_time_interval"`
}

type OrderToCompleteDTO struct {
	CourierID    uint64    `json:"courier_id" validate:"required"`
	OrderID      uint64    `json:"order_id" validate:"required"`
	CompleteTime time.Time `json:"complete_time" validate:"required"`
}

// AssignResultDTO is the outcome of one assignment pass: the courier's full
// assigned set and, when it is non-empty, the assign time of its newest
// order.
type AssignResultDTO struct {
	Orders     []entity.Order
	AssignTime *time.Time
}
