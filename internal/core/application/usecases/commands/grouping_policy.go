package commands

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// GroupingPolicy controls how checkout splits a mixed cart into orders.
type GroupingPolicy int

const (
	// GroupingUnknown represents an invalid or undefined policy.
	GroupingUnknown GroupingPolicy = iota
	// GroupPerMerchant creates one order per merchant represented in the cart.
	GroupPerMerchant
	// GroupPerLine creates one order per cart line.
	GroupPerLine
)

func getGroupingPolicyStrings() map[GroupingPolicy]string {
	return map[GroupingPolicy]string{
		GroupingUnknown:  "unknown",
		GroupPerMerchant: "per_merchant",
		GroupPerLine:     "per_line",
	}
}

// Validate checks if the GroupingPolicy is one of the defined policies.
func (p GroupingPolicy) Validate() error {
	if p <= GroupingUnknown || p > GroupPerLine {
		return errs.NewValueIsInvalidErrorWithCause("grouping policy is invalid",
			fmt.Errorf("%d is not a valid grouping policy", p))
	}
	return nil
}

// String returns the configuration name of the policy.
func (p GroupingPolicy) String() string {
	if name, ok := getGroupingPolicyStrings()[p]; ok {
		return name
	}
	return "unknown"
}

// GroupingPolicyFromString parses a configuration name back into a GroupingPolicy.
func GroupingPolicyFromString(s string) (GroupingPolicy, error) {
	for policy, name := range getGroupingPolicyStrings() {
		if policy != GroupingUnknown && name == s {
			return policy, nil
		}
	}
	return GroupingUnknown, errs.NewValueIsInvalidErrorWithCause("grouping policy is invalid",
		fmt.Errorf("%q is not a valid grouping policy", s))
}
