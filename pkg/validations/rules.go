package validations

import (
	"reflect"

	"gopkg.in/go-playground/validator.v9"

	"github.com/kpestov/candy-delivery/pkg/timerange"
)

// Each_HH_MM_HH_MM_time_interval validates a []string field where every item
// must be a well-formed, non-inverted HH:MM-HH:MM interval. Delegates to
// timerange.Parse so the rule cannot drift from the core parser.
func Each_HH_MM_HH_MM_time_interval(fl validator.FieldLevel) bool {
	if fl.Field().Type().Kind() != reflect.Slice {
		return false
	}

	sl, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}

	for _, item := range sl {
		if _, err := timerange.Parse(item); err != nil {
			return false
		}
	}

	return true
}
