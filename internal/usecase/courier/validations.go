package courier

import (
	"gopkg.in/go-playground/validator.v9"

	"github.com/kpestov/candy-delivery/internal/entity"
)

func courier_type(fl validator.FieldLevel) bool {
	return entity.IsValidCourierType(fl.Field().String())
}
