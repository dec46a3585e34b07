package cancellation

import (
	"fmt"
	"strconv"
	"strings"
)

// Tier maps a minimum lead time (whole hours before the appointment) to the
// fee percentage charged when cancelling inside that window.
type Tier struct {
	MinHoursBefore int    `json:"min_hours_before"`
	FeePercent     int    `json:"fee_percentage"`
	Label          string `json:"label"`
}

// Policy is an ordered fee schedule. Tiers are sorted by descending
// MinHoursBefore and the last tier must start at 0 so every lead time maps to
// exactly one tier.
type Policy struct {
	Name  string `json:"name"`
	Tiers []Tier `json:"tiers"`
}

// EventPolicy returns the schedule used for event-style bookings.
func EventPolicy() Policy {
	return Policy{
		Name: "event",
		Tiers: []Tier{
			{MinHoursBefore: 168, FeePercent: 0, Label: "7 or more days before"},
			{MinHoursBefore: 72, FeePercent: 25, Label: "3 to 7 days before"},
			{MinHoursBefore: 24, FeePercent: 50, Label: "1 to 3 days before"},
			{MinHoursBefore: 0, FeePercent: 100, Label: "less than 1 day before"},
		},
	}
}

// SalonPolicy returns the schedule used for salon appointments.
func SalonPolicy() Policy {
	return Policy{
		Name: "salon",
		Tiers: []Tier{
			{MinHoursBefore: 24, FeePercent: 0, Label: "more than 24 hours before"},
			{MinHoursBefore: 12, FeePercent: 50, Label: "12 to 24 hours before"},
			{MinHoursBefore: 0, FeePercent: 100, Label: "less than 12 hours before"},
		},
	}
}

// Validate checks the structural invariants of the schedule: at least one
// tier, strictly descending lead times ending at 0, percentages within
// [0, 100], and fees that never decrease as the lead time shrinks.
func (p Policy) Validate() error {
	if len(p.Tiers) == 0 {
		return fmt.Errorf("policy %q has no tiers", p.Name)
	}

	for i, tier := range p.Tiers {
		if tier.MinHoursBefore < 0 {
			return fmt.Errorf("policy %q tier %d: min hours before must not be negative", p.Name, i)
		}
		if tier.FeePercent < 0 || tier.FeePercent > 100 {
			return fmt.Errorf("policy %q tier %d: fee percentage %d outside [0, 100]", p.Name, i, tier.FeePercent)
		}
		if i > 0 {
			prev := p.Tiers[i-1]
			if tier.MinHoursBefore >= prev.MinHoursBefore {
				return fmt.Errorf("policy %q tier %d: lead times must be strictly descending", p.Name, i)
			}
			if tier.FeePercent < prev.FeePercent {
				return fmt.Errorf("policy %q tier %d: fee percentage must not decrease as lead time shrinks", p.Name, i)
			}
		}
	}

	if last := p.Tiers[len(p.Tiers)-1]; last.MinHoursBefore != 0 {
		return fmt.Errorf("policy %q: last tier must start at 0 hours to cover all lead times", p.Name)
	}

	return nil
}

// TierFor selects the tier with the largest MinHoursBefore still satisfied by
// hoursBefore. The boundary is inclusive: cancelling exactly at a tier's lead
// time lands in that tier.
func (p Policy) TierFor(hoursBefore int) Tier {
	for _, tier := range p.Tiers {
		if hoursBefore >= tier.MinHoursBefore {
			return tier
		}
	}
	// Unreachable for a validated policy; the 0-hour tier matches everything.
	return p.Tiers[len(p.Tiers)-1]
}

// ParseTierSpec builds a schedule from a compact string like
// "168:0,72:25,24:50,0:100" (minHours:feePercent pairs). Used for env
// overrides of the stock policies.
func ParseTierSpec(name, spec string) (Policy, error) {
	parts := strings.Split(spec, ",")
	tiers := make([]Tier, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.SplitN(part, ":", 2)
		if len(fields) != 2 {
			return Policy{}, fmt.Errorf("invalid tier %q: expected minHours:feePercent", part)
		}

		minHours, err := strconv.Atoi(strings.TrimSpace(fields[0]))
		if err != nil {
			return Policy{}, fmt.Errorf("invalid tier %q: bad hours value: %w", part, err)
		}
		feePercent, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return Policy{}, fmt.Errorf("invalid tier %q: bad fee percentage: %w", part, err)
		}

		tiers = append(tiers, Tier{
			MinHoursBefore: minHours,
			FeePercent:     feePercent,
			Label:          tierLabel(minHours),
		})
	}

	policy := Policy{Name: name, Tiers: tiers}
	if err := policy.Validate(); err != nil {
		return Policy{}, err
	}
	return policy, nil
}

// LoadPolicy resolves a stock policy by name, with an optional tier spec
// override taking precedence.
func LoadPolicy(name, tierSpec string) (Policy, error) {
	if tierSpec != "" {
		return ParseTierSpec(name, tierSpec)
	}

	switch name {
	case "event":
		return EventPolicy(), nil
	case "salon", "":
		return SalonPolicy(), nil
	default:
		return Policy{}, fmt.Errorf("unknown cancellation policy %q", name)
	}
}

func tierLabel(minHours int) string {
	if minHours == 0 {
		return "less than the minimum notice period"
	}
	if minHours%24 == 0 {
		return fmt.Sprintf("%d or more days before", minHours/24)
	}
	return fmt.Sprintf("%d or more hours before", minHours)
}
