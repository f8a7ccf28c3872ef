package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"compass/internal/domain"
)

func sampleProfile() domain.CustomerProfile {
	return domain.CustomerProfile{
		CustomerID:        1,
		Age:               30,
		Income:            60000,
		CreditScore:       700,
		DebtToIncomeRatio: 0.3,
		ExistingProducts:  "Checking Account",
		ProductCount:      1,
		EngagementScore:   20,
		EmploymentStatus:  "Employed",
	}
}

func TestBuild_RendersAllProfileFields(t *testing.T) {
	got := Build(sampleProfile())

	assert.Equal(t,
		"Customer profile: Age 30. Income of $60000. Credit score is 700. "+
			"Debt-to-income ratio is 0.30. Holds 1 products, including: Checking Account. "+
			"Digital engagement score is 20. Employment status: Employed.",
		got)
}

func TestBuild_Deterministic(t *testing.T) {
	p := sampleProfile()
	assert.Equal(t, Build(p), Build(p))
}

func TestBuild_NumericFormatting(t *testing.T) {
	p := sampleProfile()
	p.Income = 123456.78
	p.DebtToIncomeRatio = 0.4567

	got := Build(p)
	// income rounds to a whole-currency amount, ratio to two decimals
	assert.Contains(t, got, "Income of $123457.")
	assert.Contains(t, got, "Debt-to-income ratio is 0.46.")
}
