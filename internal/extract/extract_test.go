package extract

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aomi-research/edinet-cli/internal/model"
	"github.com/aomi-research/edinet-cli/internal/registry"
	"github.com/aomi-research/edinet-cli/internal/resolve"
)

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	reg, err := registry.Default()
	require.NoError(t, err)
	return New(reg, resolve.New(4))
}

func TestExtract_EmptyTable(t *testing.T) {
	e := newExtractor(t)

	_, err := e.Extract(context.Background(), &model.FactTable{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyInput))

	_, err = e.Extract(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrEmptyInput))
}

func TestExtract_GeneralCompany(t *testing.T) {
	e := newExtractor(t)

	result, err := e.Extract(context.Background(), &model.FactTable{Facts: []model.Fact{
		{Identifier: "jpcrp_cor:NetSales", Context: "CurrentYearDuration", Member: "ConsolidatedMember", Value: "123400"},
		{Identifier: "jpcrp_cor:Assets", Context: "CurrentYearInstant", Member: "ConsolidatedMember", Value: "999000"},
		{Identifier: "jpdei_cor:EDINETCodeDEI", Context: "FilingDateInstant", Value: "E00000"},
	}})
	require.NoError(t, err)

	assert.Equal(t, model.IssuerGeneralCompany, result.IssuerType)
	assert.Equal(t, "123400", result.Fields["net_sales"].Value)
	assert.Equal(t, "999000", result.Fields["total_assets"].Value)
	assert.True(t, result.Fields["operating_income"].Absent)
	assert.ElementsMatch(t, []string{"net_sales", "total_assets"}, result.Resolved())
}

func TestExtract_InvestmentTrust(t *testing.T) {
	e := newExtractor(t)

	result, err := e.Extract(context.Background(), &model.FactTable{Facts: []model.Fact{
		{Identifier: "jppfs_cor:CallLoansCAFND", Context: "CurrentYearInstant", Value: "500"},
		{Identifier: "jppfs_cor:Assets", Context: "CurrentYearInstant", Value: "10000"},
		{Identifier: "jppfs_cor:NetAssets", Context: "CurrentYearInstant", Value: "9000"},
	}})
	require.NoError(t, err)

	assert.Equal(t, model.IssuerInvestmentTrust, result.IssuerType)
	assert.Equal(t, "500", result.Fields["call_loans"].Value)
	assert.Equal(t, "10000", result.Fields["total_assets"].Value)
}

func TestExtract_UnmappedIssuerUsesDefaultProfile(t *testing.T) {
	e := newExtractor(t)

	// Insurance classifies but has no built-in rules; the default profile
	// applies while the classified type is still reported.
	result, err := e.Extract(context.Background(), &model.FactTable{Facts: []model.Fact{
		{Identifier: "jpins_cor:OrdinaryIncomeINS", Context: "CurrentYearDuration", Value: "42"},
		{Identifier: "jpins_cor:Assets", Context: "CurrentYearInstant", Value: "43"},
	}})
	require.NoError(t, err)

	assert.Equal(t, model.IssuerInsurance, result.IssuerType)
	assert.Equal(t, []string{
		"net_sales", "operating_income", "ordinary_income", "net_income",
		"total_assets", "total_liabilities", "net_assets",
	}, result.FieldOrder)
	assert.Empty(t, result.Resolved())
}

func TestSearchByTerms_CaseInsensitive(t *testing.T) {
	tbl := &model.FactTable{Facts: []model.Fact{
		{Identifier: "jpcrp_cor:NetSales", Name: "売上高", Value: "1"},
		{Identifier: "jpcrp_cor:Assets", Name: "資産合計", Value: "2"},
		{Identifier: "jpcrp_cor:OperatingIncome", Name: "営業利益", Value: "3"},
	}}

	got := SearchByTerms(tbl, []string{"NETSALES"})
	require.Len(t, got, 1)
	assert.Equal(t, "jpcrp_cor:NetSales", got[0].Identifier)
}

func TestSearchByTerms_MatchesItemName(t *testing.T) {
	tbl := &model.FactTable{Facts: []model.Fact{
		{Identifier: "jpcrp_cor:X1", Name: "資産合計", Value: "1"},
		{Identifier: "jpcrp_cor:X2", Name: "負債合計", Value: "2"},
	}}

	got := SearchByTerms(tbl, []string{"資産"})
	require.Len(t, got, 1)
	assert.Equal(t, "jpcrp_cor:X1", got[0].Identifier)
}

func TestSearchByTerms_OriginalOrderOncePerFact(t *testing.T) {
	tbl := &model.FactTable{Facts: []model.Fact{
		{Identifier: "a:Sales", Name: "sales total", Value: "1"},
		{Identifier: "a:Other", Name: "misc", Value: "2"},
		{Identifier: "a:TotalAssets", Name: "assets", Value: "3"},
	}}

	// First fact matches both terms but is emitted once; order follows the
	// table, not the term list.
	got := SearchByTerms(tbl, []string{"total", "sales"})
	require.Len(t, got, 2)
	assert.Equal(t, "a:Sales", got[0].Identifier)
	assert.Equal(t, "a:TotalAssets", got[1].Identifier)
}

func TestSearchByTerms_NoTerms(t *testing.T) {
	tbl := &model.FactTable{Facts: []model.Fact{{Identifier: "a:X", Value: "1"}}}
	assert.Nil(t, SearchByTerms(tbl, nil))
	assert.Nil(t, SearchByTerms(nil, []string{"x"}))
	assert.Empty(t, SearchByTerms(tbl, []string{""}))
}
