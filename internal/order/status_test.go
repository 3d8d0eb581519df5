package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "packaging", "in transit", "delivered", "cancelled"} {
		s, err := ParseStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(valid), s)
	}

	for _, invalid := range []string{"", "shipped", "PENDING", "done"} {
		_, err := ParseStatus(invalid)
		assert.ErrorIs(t, err, ErrInvalidStatus)
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"PendingToPackaging", StatusPending, StatusPackaging, true},
		{"PackagingToInTransit", StatusPackaging, StatusInTransit, true},
		{"InTransitToDelivered", StatusInTransit, StatusDelivered, true},
		{"SkipToDelivered", StatusPending, StatusDelivered, true},
		{"SkipToInTransit", StatusPending, StatusInTransit, true},
		{"Backward", StatusInTransit, StatusPackaging, false},
		{"BackToPending", StatusPackaging, StatusPending, false},
		{"SameStatus", StatusPackaging, StatusPackaging, false},
		{"CancelFromPending", StatusPending, StatusCancelled, true},
		{"CancelFromInTransit", StatusInTransit, StatusCancelled, true},
		{"CancelFromDelivered", StatusDelivered, StatusCancelled, false},
		{"OutOfDelivered", StatusDelivered, StatusPackaging, false},
		{"OutOfCancelled", StatusCancelled, StatusPackaging, false},
		{"CancelFromCancelled", StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusPackaging.Terminal())
	assert.False(t, StatusInTransit.Terminal())
}
