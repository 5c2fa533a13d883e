package validations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/go-playground/validator.v9"
)

func TestEachTimeIntervalRule(t *testing.T) {

	v := validator.New()
	err := v.RegisterValidation("each_HH_MM_HH_MM_time_interval", Each_HH_MM_HH_MM_time_interval)
	require.NoError(t, err)

	type payload struct {
		Hours []string `validate:"each_HH_MM_HH_MM_time_interval"`
	}

	assert.NoError(t, v.Struct(payload{Hours: []string{"09:00-18:00", "22:10-23:59"}}))
	assert.NoError(t, v.Struct(payload{Hours: nil}))

	for _, bad := range []string{"9:00-18:00", "09:00 - 18:00", "18:00-09:00", "09:00-24:00", "junk"} {
		assert.Error(t, v.Struct(payload{Hours: []string{bad}}), bad)
	}
}
