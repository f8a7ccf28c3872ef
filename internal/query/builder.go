// Package query renders customer profiles into the natural-language
// descriptions used as retrieval queries.
package query

import (
	"fmt"

	"compass/internal/domain"
)

// Build renders profile into a fixed natural-language template. The output
// is byte-identical for equal inputs: income as a whole-currency amount,
// the debt-to-income ratio to two decimal places.
func Build(profile domain.CustomerProfile) string {
	return fmt.Sprintf(
		"Customer profile: Age %d. Income of $%.0f. Credit score is %d. "+
			"Debt-to-income ratio is %.2f. Holds %d products, including: %s. "+
			"Digital engagement score is %d. Employment status: %s.",
		profile.Age,
		profile.Income,
		profile.CreditScore,
		profile.DebtToIncomeRatio,
		profile.ProductCount,
		profile.ExistingProducts,
		profile.EngagementScore,
		profile.EmploymentStatus,
	)
}
