package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidOrderWeight(t *testing.T) {
	cases := []struct {
		weight float64
		want   bool
	}{
		{0.01, true},
		{50.00, true},
		{0.23, true},
		{15, true},
		{0.009, false},
		{50.01, false},
		{0, false},
		{-1, false},
		{10.001, false}, // more than two decimal places
	}

	for _, c := range cases {
		assert.Equal(t, c.want, ValidOrderWeight(c.weight), "weight %v", c.weight)
	}
}

func TestOrderLifecyclePredicates(t *testing.T) {
	now := time.Date(2021, time.March, 21, 11, 0, 0, 0, time.UTC)
	later := now.Add(30 * time.Minute)

	free := &Order{}
	assert.True(t, free.IsFree())
	assert.False(t, free.IsAssigned())
	assert.False(t, free.IsCompleted())

	assigned := &Order{AssignTime: &now}
	assert.False(t, assigned.IsFree())
	assert.True(t, assigned.IsAssigned())
	assert.False(t, assigned.IsCompleted())

	completed := &Order{AssignTime: &now, CompleteTime: &later}
	assert.False(t, completed.IsFree())
	assert.False(t, completed.IsAssigned())
	assert.True(t, completed.IsCompleted())
}
