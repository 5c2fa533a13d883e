package order

import (
	"gopkg.in/go-playground/validator.v9"

	"github.com/kpestov/candy-delivery/internal/entity"
)

func order_weight(fl validator.FieldLevel) bool {
	return entity.ValidOrderWeight(fl.Field().Float())
}
