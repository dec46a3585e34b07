package cancellation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEventEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(EventPolicy())
	require.NoError(t, err)
	return engine
}

func TestPreviewEventPolicyBoundaries(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	const paid = int64(100000) // 1000 rupees in paisa

	tests := []struct {
		name            string
		requestedAt     time.Time
		wantHoursBefore int
		wantFeePercent  int
		wantFeePaisa    int64
		wantRefundPaisa int64
	}{
		{
			name:            "exactly 7 days before lands in the free tier",
			requestedAt:     scheduledAt.Add(-7 * 24 * time.Hour),
			wantHoursBefore: 168,
			wantFeePercent:  0,
			wantFeePaisa:    0,
			wantRefundPaisa: 100000,
		},
		{
			name:            "6 days 23 hours before pays 25 percent",
			requestedAt:     scheduledAt.Add(-(6*24 + 23) * time.Hour),
			wantHoursBefore: 167,
			wantFeePercent:  25,
			wantFeePaisa:    25000,
			wantRefundPaisa: 75000,
		},
		{
			name:            "exactly 3 days before pays 25 percent",
			requestedAt:     scheduledAt.Add(-72 * time.Hour),
			wantHoursBefore: 72,
			wantFeePercent:  25,
			wantFeePaisa:    25000,
			wantRefundPaisa: 75000,
		},
		{
			name:            "2 days before pays 50 percent",
			requestedAt:     scheduledAt.Add(-48 * time.Hour),
			wantHoursBefore: 48,
			wantFeePercent:  50,
			wantFeePaisa:    50000,
			wantRefundPaisa: 50000,
		},
		{
			name:            "2 hours before forfeits everything",
			requestedAt:     scheduledAt.Add(-2 * time.Hour),
			wantHoursBefore: 2,
			wantFeePercent:  100,
			wantFeePaisa:    100000,
			wantRefundPaisa: 0,
		},
		{
			name:            "partial hours round up to the customer's benefit",
			requestedAt:     scheduledAt.Add(-(23*time.Hour + 30*time.Minute)),
			wantHoursBefore: 24,
			wantFeePercent:  50,
			wantFeePaisa:    50000,
			wantRefundPaisa: 50000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := engine.Preview(PreviewInput{
				ScheduledAt:     scheduledAt,
				RequestedAt:     tt.requestedAt,
				PaidAmountPaisa: paid,
				BookingStatus:   "CONFIRMED",
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantHoursBefore, outcome.HoursBeforeAppointment)
			assert.Equal(t, tt.wantFeePercent, outcome.FeePercent)
			assert.Equal(t, tt.wantFeePaisa, outcome.FeePaisa)
			assert.Equal(t, tt.wantRefundPaisa, outcome.RefundPaisa)
			assert.True(t, outcome.CanCancel)
			assert.Empty(t, outcome.CancelError)
		})
	}
}

func TestPreviewElapsedAppointment(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	outcome, err := engine.Preview(PreviewInput{
		ScheduledAt:     scheduledAt,
		RequestedAt:     scheduledAt.Add(30 * time.Minute),
		PaidAmountPaisa: 100000,
		BookingStatus:   "CONFIRMED",
	})
	require.NoError(t, err)

	assert.False(t, outcome.CanCancel)
	assert.NotEmpty(t, outcome.CancelError)
	assert.Equal(t, 0, outcome.HoursBeforeAppointment)
	// Amounts are still computed for display even when not cancellable.
	assert.Equal(t, int64(100000), outcome.FeePaisa+outcome.RefundPaisa)
}

func TestPreviewExactStartTimeNotCancellable(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	outcome, err := engine.Preview(PreviewInput{
		ScheduledAt:     scheduledAt,
		RequestedAt:     scheduledAt,
		PaidAmountPaisa: 50000,
		BookingStatus:   "CONFIRMED",
	})
	require.NoError(t, err)
	assert.False(t, outcome.CanCancel)
}

func TestPreviewTerminalStatuses(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	requestedAt := scheduledAt.Add(-48 * time.Hour)

	for _, status := range []string{"CANCELLED", "COMPLETED"} {
		outcome, err := engine.Preview(PreviewInput{
			ScheduledAt:     scheduledAt,
			RequestedAt:     requestedAt,
			PaidAmountPaisa: 100000,
			BookingStatus:   status,
		})
		require.NoError(t, err)
		assert.False(t, outcome.CanCancel, "status %s must not be cancellable", status)
		assert.NotEmpty(t, outcome.CancelError)
	}
}

func TestPreviewFeeRefundPartition(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	amounts := []int64{0, 1, 3, 99, 99999, 100000, 12345, 7, 1000001}
	leadHours := []int{0, 1, 11, 12, 23, 24, 71, 72, 167, 168, 500}

	for _, paid := range amounts {
		for _, hours := range leadHours {
			outcome, err := engine.Preview(PreviewInput{
				ScheduledAt:     scheduledAt,
				RequestedAt:     scheduledAt.Add(-time.Duration(hours) * time.Hour),
				PaidAmountPaisa: paid,
				BookingStatus:   "CONFIRMED",
			})
			require.NoError(t, err)

			assert.Equal(t, paid, outcome.FeePaisa+outcome.RefundPaisa,
				"paid=%d hours=%d: fee and refund must partition the paid amount exactly", paid, hours)
			assert.GreaterOrEqual(t, outcome.FeePaisa, int64(0))
			assert.LessOrEqual(t, outcome.FeePaisa, paid)
			assert.GreaterOrEqual(t, outcome.RefundPaisa, int64(0))
			assert.LessOrEqual(t, outcome.RefundPaisa, paid)
		}
	}
}

func TestPreviewRoundsFeeHalfUp(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	// 99999 * 25% = 24999.75, which rounds up to 25000.
	outcome, err := engine.Preview(PreviewInput{
		ScheduledAt:     scheduledAt,
		RequestedAt:     scheduledAt.Add(-100 * time.Hour),
		PaidAmountPaisa: 99999,
		BookingStatus:   "CONFIRMED",
	})
	require.NoError(t, err)
	assert.Equal(t, 25, outcome.FeePercent)
	assert.Equal(t, int64(25000), outcome.FeePaisa)
	assert.Equal(t, int64(74999), outcome.RefundPaisa)

	// 2 * 25% = 0.5, which rounds up to 1.
	outcome, err = engine.Preview(PreviewInput{
		ScheduledAt:     scheduledAt,
		RequestedAt:     scheduledAt.Add(-100 * time.Hour),
		PaidAmountPaisa: 2,
		BookingStatus:   "CONFIRMED",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), outcome.FeePaisa)
	assert.Equal(t, int64(1), outcome.RefundPaisa)
}

func TestPreviewFeeMonotonicInLeadTime(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	prevPercent := 0
	// Sweep from far out to the last hour; more notice never costs more.
	for hours := 400; hours >= 0; hours-- {
		outcome, err := engine.Preview(PreviewInput{
			ScheduledAt:     scheduledAt,
			RequestedAt:     scheduledAt.Add(-time.Duration(hours) * time.Hour),
			PaidAmountPaisa: 100000,
			BookingStatus:   "CONFIRMED",
		})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, outcome.FeePercent, prevPercent,
			"fee percent must never decrease as lead time shrinks (hours=%d)", hours)
		prevPercent = outcome.FeePercent
	}
}

func TestPreviewIdempotent(t *testing.T) {
	engine := newEventEngine(t)
	input := PreviewInput{
		ScheduledAt:     time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC),
		RequestedAt:     time.Date(2026, 9, 12, 9, 30, 0, 0, time.UTC),
		PaidAmountPaisa: 43210,
		BookingStatus:   "PENDING",
	}

	first, err := engine.Preview(input)
	require.NoError(t, err)
	second, err := engine.Preview(input)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPreviewValidation(t *testing.T) {
	engine := newEventEngine(t)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)
	requestedAt := scheduledAt.Add(-48 * time.Hour)

	tests := []struct {
		name  string
		input PreviewInput
	}{
		{
			name: "negative paid amount",
			input: PreviewInput{
				ScheduledAt:     scheduledAt,
				RequestedAt:     requestedAt,
				PaidAmountPaisa: -1,
				BookingStatus:   "CONFIRMED",
			},
		},
		{
			name: "zero scheduled time",
			input: PreviewInput{
				RequestedAt:     requestedAt,
				PaidAmountPaisa: 100,
				BookingStatus:   "CONFIRMED",
			},
		},
		{
			name: "zero requested time",
			input: PreviewInput{
				ScheduledAt:     scheduledAt,
				PaidAmountPaisa: 100,
				BookingStatus:   "CONFIRMED",
			},
		},
		{
			name: "unknown booking status",
			input: PreviewInput{
				ScheduledAt:     scheduledAt,
				RequestedAt:     requestedAt,
				PaidAmountPaisa: 100,
				BookingStatus:   "SOMETHING",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Preview(tt.input)
			require.Error(t, err)

			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestSalonPolicyTiers(t *testing.T) {
	engine, err := NewEngine(SalonPolicy())
	require.NoError(t, err)
	scheduledAt := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		hoursBefore    int
		wantFeePercent int
	}{
		{48, 0},
		{25, 0},
		{24, 0},
		{23, 50},
		{12, 50},
		{11, 100},
		{1, 100},
	}

	for _, tt := range tests {
		outcome, err := engine.Preview(PreviewInput{
			ScheduledAt:     scheduledAt,
			RequestedAt:     scheduledAt.Add(-time.Duration(tt.hoursBefore) * time.Hour),
			PaidAmountPaisa: 10000,
			BookingStatus:   "CONFIRMED",
		})
		require.NoError(t, err)
		assert.Equal(t, tt.wantFeePercent, outcome.FeePercent, "hoursBefore=%d", tt.hoursBefore)
	}
}
