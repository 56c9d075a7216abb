package validator

import (
	"fmt"

	"shiftscore_backend/internal/entitlements"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules registers domain validation rules.
func registerCustomRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"subscription_tier": validateSubscriptionTier,
		"us_state":          validateUSState,
	}

	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register rule %q: %w", tag, err)
		}
	}
	return nil
}

func validateSubscriptionTier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		// empty is handled by 'required'
		return true
	}
	return entitlements.IsKnownTier(entitlements.Tier(value))
}

func validateUSState(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return len(value) == 2
}
