package cancellation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockPoliciesAreValid(t *testing.T) {
	assert.NoError(t, EventPolicy().Validate())
	assert.NoError(t, SalonPolicy().Validate())
}

func TestPolicyValidateRejectsBadSchedules(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
	}{
		{
			name:   "no tiers",
			policy: Policy{Name: "empty"},
		},
		{
			name: "last tier not zero",
			policy: Policy{Name: "gap", Tiers: []Tier{
				{MinHoursBefore: 48, FeePercent: 0},
				{MinHoursBefore: 12, FeePercent: 50},
			}},
		},
		{
			name: "lead times not descending",
			policy: Policy{Name: "unsorted", Tiers: []Tier{
				{MinHoursBefore: 12, FeePercent: 0},
				{MinHoursBefore: 48, FeePercent: 50},
				{MinHoursBefore: 0, FeePercent: 100},
			}},
		},
		{
			name: "duplicate lead time",
			policy: Policy{Name: "dup", Tiers: []Tier{
				{MinHoursBefore: 24, FeePercent: 0},
				{MinHoursBefore: 24, FeePercent: 50},
				{MinHoursBefore: 0, FeePercent: 100},
			}},
		},
		{
			name: "fee percent above 100",
			policy: Policy{Name: "over", Tiers: []Tier{
				{MinHoursBefore: 24, FeePercent: 0},
				{MinHoursBefore: 0, FeePercent: 150},
			}},
		},
		{
			name: "negative fee percent",
			policy: Policy{Name: "neg", Tiers: []Tier{
				{MinHoursBefore: 24, FeePercent: -5},
				{MinHoursBefore: 0, FeePercent: 100},
			}},
		},
		{
			name: "fee decreases with less notice",
			policy: Policy{Name: "reward-late", Tiers: []Tier{
				{MinHoursBefore: 24, FeePercent: 50},
				{MinHoursBefore: 0, FeePercent: 25},
			}},
		},
		{
			name: "negative lead time",
			policy: Policy{Name: "negative-hours", Tiers: []Tier{
				{MinHoursBefore: -1, FeePercent: 0},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.policy.Validate())
		})
	}
}

func TestTierForBoundaryInclusive(t *testing.T) {
	policy := EventPolicy()

	tests := []struct {
		hoursBefore    int
		wantMinHours   int
		wantFeePercent int
	}{
		{500, 168, 0},
		{168, 168, 0},
		{167, 72, 25},
		{72, 72, 25},
		{71, 24, 50},
		{24, 24, 50},
		{23, 0, 100},
		{0, 0, 100},
	}

	for _, tt := range tests {
		tier := policy.TierFor(tt.hoursBefore)
		assert.Equal(t, tt.wantMinHours, tier.MinHoursBefore, "hoursBefore=%d", tt.hoursBefore)
		assert.Equal(t, tt.wantFeePercent, tier.FeePercent, "hoursBefore=%d", tt.hoursBefore)
	}
}

func TestParseTierSpec(t *testing.T) {
	policy, err := ParseTierSpec("custom", "168:0, 72:25, 24:50, 0:100")
	require.NoError(t, err)
	require.Len(t, policy.Tiers, 4)
	assert.Equal(t, "custom", policy.Name)
	assert.Equal(t, 168, policy.Tiers[0].MinHoursBefore)
	assert.Equal(t, 100, policy.Tiers[3].FeePercent)
	assert.NoError(t, policy.Validate())
}

func TestParseTierSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		spec string
	}{
		{"missing colon", "168-0,0:100"},
		{"bad hours", "abc:0,0:100"},
		{"bad percent", "24:x,0:100"},
		{"invalid schedule", "0:100,24:0"},
		{"empty spec", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTierSpec("bad", tt.spec)
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	policy, err := LoadPolicy("event", "")
	require.NoError(t, err)
	assert.Equal(t, "event", policy.Name)
	assert.Len(t, policy.Tiers, 4)

	policy, err = LoadPolicy("salon", "")
	require.NoError(t, err)
	assert.Len(t, policy.Tiers, 3)

	// Default is the salon schedule.
	policy, err = LoadPolicy("", "")
	require.NoError(t, err)
	assert.Equal(t, "salon", policy.Name)

	// A tier spec overrides the stock schedule.
	policy, err = LoadPolicy("salon", "48:0,0:100")
	require.NoError(t, err)
	assert.Len(t, policy.Tiers, 2)

	_, err = LoadPolicy("unknown", "")
	assert.Error(t, err)
}
