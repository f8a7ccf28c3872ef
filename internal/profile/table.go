// Package profile provides a read-only lookup table over the processed
// customer dataset produced by the external feature pipeline.
package profile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"compass/internal/domain"
	"compass/internal/errs"
)

// Table is an in-memory customer profile table keyed by customer_id.
// It is immutable after Load.
type Table struct {
	profiles map[int]domain.CustomerProfile
}

// Load parses the processed customer CSV at path. Columns are resolved by
// header name; columns beyond the ones listed below are ignored so the
// feature pipeline can evolve its output without breaking the reader.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errs.Configuration(err, "customer dataset %q not readable", path)
	}
	defer file.Close()

	r := csv.NewReader(file)
	header, err := r.Read()
	if err != nil {
		return nil, errs.Configuration(err, "customer dataset %q has no header row", path)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	required := []string{
		"customer_id", "age", "income", "credit_score", "debt_to_income_ratio",
		"existing_products", "product_count", "engagement_score", "employment_status",
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, errs.Configuration(nil, "customer dataset %q is missing column %q", path, name)
		}
	}

	profiles := make(map[int]domain.CustomerProfile)
	for line := 2; ; line++ {
		record, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, errs.Configuration(err, "customer dataset %q: read failed at line %d", path, line)
		}
		p, err := parseRecord(record, col)
		if err != nil {
			return nil, errs.Configuration(err, "customer dataset %q: bad record at line %d", path, line)
		}
		profiles[p.CustomerID] = p
	}
	if len(profiles) == 0 {
		return nil, errs.Configuration(nil, "customer dataset %q contains no records", path)
	}
	return &Table{profiles: profiles}, nil
}

// NewTable builds a table directly from profiles, for callers that source
// profile rows themselves.
func NewTable(profiles []domain.CustomerProfile) *Table {
	m := make(map[int]domain.CustomerProfile, len(profiles))
	for _, p := range profiles {
		m[p.CustomerID] = p
	}
	return &Table{profiles: m}
}

// Len returns the number of profiles in the table.
func (t *Table) Len() int { return len(t.profiles) }

// Lookup resolves a profile by customer identifier.
func (t *Table) Lookup(customerID int) (domain.CustomerProfile, error) {
	p, ok := t.profiles[customerID]
	if !ok {
		return domain.CustomerProfile{}, errs.NotFound("customer %d not found", customerID)
	}
	return p, nil
}

func parseRecord(record []string, col map[string]int) (domain.CustomerProfile, error) {
	var p domain.CustomerProfile
	var err error

	field := func(name string) string { return record[col[name]] }

	if p.CustomerID, err = strconv.Atoi(field("customer_id")); err != nil {
		return p, fmt.Errorf("customer_id: %w", err)
	}
	if p.Age, err = strconv.Atoi(field("age")); err != nil {
		return p, fmt.Errorf("age: %w", err)
	}
	if p.Income, err = strconv.ParseFloat(field("income"), 64); err != nil {
		return p, fmt.Errorf("income: %w", err)
	}
	if p.CreditScore, err = strconv.Atoi(field("credit_score")); err != nil {
		return p, fmt.Errorf("credit_score: %w", err)
	}
	if p.DebtToIncomeRatio, err = strconv.ParseFloat(field("debt_to_income_ratio"), 64); err != nil {
		return p, fmt.Errorf("debt_to_income_ratio: %w", err)
	}
	if p.ProductCount, err = strconv.Atoi(field("product_count")); err != nil {
		return p, fmt.Errorf("product_count: %w", err)
	}
	if p.EngagementScore, err = strconv.Atoi(field("engagement_score")); err != nil {
		return p, fmt.Errorf("engagement_score: %w", err)
	}
	p.ExistingProducts = field("existing_products")
	p.EmploymentStatus = field("employment_status")
	return p, nil
}
