package billing

import "fmt"

// LimitError is a plan gate denial. It carries everything the HTTP layer
// needs for a 403 body: the reason, the plan and its ceiling.
type LimitError struct {
	Plan          PlanName
	Format        string
	MaxProducts   int
	ProductsCount int
	Reason        string
}

func (e *LimitError) Error() string { return e.Reason }

// Check validates a feed request against a plan. Denial conditions are
// evaluated in order: product ceiling first, then the format allow-list.
// The ceiling check is monotonic in productsCount. No side effects.
func Check(plan Plan, format string, productsCount int) error {
	if plan.MaxProducts > 0 && productsCount > plan.MaxProducts {
		return &LimitError{
			Plan:          plan.Name,
			Format:        format,
			MaxProducts:   plan.MaxProducts,
			ProductsCount: productsCount,
			Reason:        fmt.Sprintf("Product limit exceeded. Upgrade to access more than %d products.", plan.MaxProducts),
		}
	}
	if plan.Formats == FormatsLimited {
		allowed := false
		for _, f := range plan.LimitedFormats {
			if f == format {
				allowed = true
				break
			}
		}
		if !allowed {
			return &LimitError{
				Plan:          plan.Name,
				Format:        format,
				MaxProducts:   plan.MaxProducts,
				ProductsCount: productsCount,
				Reason:        fmt.Sprintf("Format %q not available in %s plan. Upgrade to access all formats.", format, plan.DisplayName),
			}
		}
	}
	return nil
}
