package orbit

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the policy rules of a record and returns human-readable errors.
// It never panics or fails on a malformed record; every problem is reported in the list.
func Validate(c *Config) (bool, []string) {
	if c == nil {
		return false, []string{"Configuration is missing"}
	}

	var errs []string
	seen := make(map[string]bool)
	add := func(msg string) {
		if !seen[msg] {
			seen[msg] = true
			errs = append(errs, msg)
		}
	}

	err := validate.Struct(c)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			add(describe(fe))
		}
	} else if err != nil {
		add(err.Error())
	}

	return len(errs) == 0, errs
}

func describe(fe validator.FieldError) string {
	switch fe.StructNamespace() {
	case "Config.Name":
		return "Chain name is required"
	case "Config.OwnerAddress":
		return "Valid owner address is required"
	case "Config.Validators":
		return "At least 1 validator is required"
	case "Config.ChainID":
		return fmt.Sprintf("Chain ID must be between %d and %d", MinChainID, MaxChainID)
	case "Config.ChainConfig.BlockTime":
		return "Block time must be between 1-30 seconds"
	case "Config.ChainConfig.GasLimit":
		return "Gas limit too low"
	case "Config.SequencerAddress":
		return "Invalid sequencer address"
	case "Config.BatchPosterAddress":
		return "Invalid batch poster address"
	}
	if fe.Tag() == "eth_addr" {
		return fmt.Sprintf("Invalid validator address: %v", fe.Value())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}
