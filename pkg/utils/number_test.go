package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoundWithTwoDecimalPlace(t *testing.T) {
	assert.Equal(t, 0.0, RoundWithTwoDecimalPlace(0))
	assert.Equal(t, 2.5, RoundWithTwoDecimalPlace(2.5))
	assert.Equal(t, 1.23, RoundWithTwoDecimalPlace(1.234))
	assert.Equal(t, 1.24, RoundWithTwoDecimalPlace(1.235001))
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2024, 3, 5, 23, 59, 10, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), TruncateToDay(in))
}
