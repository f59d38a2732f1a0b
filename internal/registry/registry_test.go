package registry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aomi-research/edinet-cli/internal/model"
)

func TestDefault_LoadsBuiltinMappings(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	types := reg.IssuerTypes()
	assert.Equal(t, []model.IssuerType{
		model.IssuerInvestmentTrust,
		model.IssuerGeneralCompany,
		model.IssuerBank,
	}, types)

	profile, err := reg.Profile(model.IssuerGeneralCompany)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"net_sales", "operating_income", "ordinary_income", "net_income",
		"total_assets", "total_liabilities", "net_assets",
	}, profile.FieldNames())
}

func TestDefault_RulesAreOrdered(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	profile, err := reg.Profile(model.IssuerGeneralCompany)
	require.NoError(t, err)

	netSales := profile.Fields[0]
	assert.Equal(t, "net_sales", netSales.Name)
	assert.Equal(t, "売上高", netSales.Rule.DisplayName)
	assert.Equal(t, "jpcrp_cor:NetSales", netSales.Rule.CandidateIdentifiers[0])
	assert.Equal(t, []string{"CurrentYearDuration", "Prior1YearDuration"}, netSales.Rule.ContextPriority)
	assert.Equal(t, []string{"ConsolidatedMember", "NonConsolidatedMember", MemberUnqualified}, netSales.Rule.MemberPriority)
}

func TestLoad_PreservesFieldDeclarationOrder(t *testing.T) {
	doc := `
profiles:
  general_company:
    zeta:
      display_name: Z
      candidate_identifiers: [a:Z]
      context_priority: [C]
      member_priority: [unqualified]
    alpha:
      display_name: A
      candidate_identifiers: [a:A]
      context_priority: [C]
      member_priority: [unqualified]
`
	reg, err := Load([]byte(doc))
	require.NoError(t, err)

	profile, err := reg.Profile(model.IssuerGeneralCompany)
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha"}, profile.FieldNames())
}

func TestLoad_DuplicateField(t *testing.T) {
	doc := `
profiles:
  bank:
    total_assets:
      display_name: A
      candidate_identifiers: [a:A]
      context_priority: [C]
      member_priority: [unqualified]
    total_assets:
      display_name: B
      candidate_identifiers: [a:B]
      context_priority: [C]
      member_priority: [unqualified]
`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "duplicate field")
}

func TestLoad_EmptyCandidateIdentifiers(t *testing.T) {
	doc := `
profiles:
  bank:
    total_assets:
      display_name: A
      candidate_identifiers: []
      context_priority: [C]
      member_priority: [unqualified]
`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "empty candidate_identifiers")
}

func TestLoad_EmptyPriorityEntry(t *testing.T) {
	doc := `
profiles:
  bank:
    total_assets:
      display_name: A
      candidate_identifiers: [a:A]
      context_priority: ["C", ""]
      member_priority: [unqualified]
`
	_, err := Load([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty priority entry")
}

func TestLoad_MissingProfilesSection(t *testing.T) {
	_, err := Load([]byte("other: 1\n"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig))
	assert.Contains(t, err.Error(), "missing profiles")
}

func TestLoad_ProfileWithoutFields(t *testing.T) {
	_, err := Load([]byte("profiles:\n  bank: {}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no fields")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load([]byte("profiles: [unbalanced"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig))
}

func TestLoadFile_RoundTrip(t *testing.T) {
	doc := `
profiles:
  general_company:
    net_sales:
      display_name: 売上高
      candidate_identifiers: [jpcrp_cor:NetSales]
      context_priority: [CurrentYearDuration]
      member_priority: [ConsolidatedMember, unqualified]
`
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)

	profile, err := reg.Profile(model.IssuerGeneralCompany)
	require.NoError(t, err)
	require.Len(t, profile.Fields, 1)
	assert.Equal(t, "net_sales", profile.Fields[0].Name)
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrConfig))
}

func TestLoadReader(t *testing.T) {
	doc := `
profiles:
  bank:
    total_assets:
      display_name: 資産の部合計
      candidate_identifiers: [jpbank_cor:Assets]
      context_priority: [CurrentYearInstant]
      member_priority: [unqualified]
`
	reg, err := LoadReader(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, []model.IssuerType{model.IssuerBank}, reg.IssuerTypes())
}

func TestProfile_NotFound(t *testing.T) {
	reg, err := Default()
	require.NoError(t, err)

	_, err = reg.Profile(model.IssuerInsurance)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrProfileNotFound))
}
