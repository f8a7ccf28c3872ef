package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"compass/internal/domain"
	"compass/internal/errs"
)

const sampleCSV = `customer_id,age,income,credit_score,total_debt,existing_products,employment_status,debt_to_income_ratio,engagement_score,product_count
1,30,60000,700,18000,Checking Account,Employed,0.3,20,1
2,55,180000.5,810,36000,"Savings Account,Mortgage",Self-Employed,0.2,41,2
`

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "processed_customer_data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ParsesByHeaderName(t *testing.T) {
	table, err := Load(writeDataset(t, sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	p, err := table.Lookup(2)
	require.NoError(t, err)
	assert.Equal(t, domain.CustomerProfile{
		CustomerID:        2,
		Age:               55,
		Income:            180000.5,
		CreditScore:       810,
		DebtToIncomeRatio: 0.2,
		ExistingProducts:  "Savings Account,Mortgage",
		ProductCount:      2,
		EngagementScore:   41,
		EmploymentStatus:  "Self-Employed",
	}, p)
}

func TestLookup_UnknownCustomer(t *testing.T) {
	table, err := Load(writeDataset(t, sampleCSV))
	require.NoError(t, err)

	_, err = table.Lookup(999)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
	assert.Contains(t, err.Error(), "999")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestLoad_MissingColumn(t *testing.T) {
	csv := "customer_id,age\n1,30\n"
	_, err := Load(writeDataset(t, csv))
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
	assert.Contains(t, err.Error(), "income")
}

func TestLoad_BadNumericField(t *testing.T) {
	csv := `customer_id,age,income,credit_score,existing_products,employment_status,debt_to_income_ratio,engagement_score,product_count
1,thirty,60000,700,Checking Account,Employed,0.3,20,1
`
	_, err := Load(writeDataset(t, csv))
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestLoad_EmptyDataset(t *testing.T) {
	csv := "customer_id,age,income,credit_score,existing_products,employment_status,debt_to_income_ratio,engagement_score,product_count\n"
	_, err := Load(writeDataset(t, csv))
	require.Error(t, err)
	assert.True(t, errs.IsConfiguration(err))
}

func TestNewTable_Lookup(t *testing.T) {
	table := NewTable([]domain.CustomerProfile{{CustomerID: 7, Age: 40}})
	p, err := table.Lookup(7)
	require.NoError(t, err)
	assert.Equal(t, 40, p.Age)
}
