// Package taxonomy decides which issuer-type profile applies to a fact
// table by scoring the namespace prefixes of its element identifiers.
package taxonomy

import (
	"strings"

	"github.com/aomi-research/edinet-cli/internal/model"
)

// signaturePrefixes lists the taxonomy namespaces unique to each issuer
// type. An identifier carrying one of these prefixes is a vote for that
// profile.
var signaturePrefixes = map[model.IssuerType][]string{
	model.IssuerInvestmentTrust: {"jppfs_cor:", "jpfund_"},
	model.IssuerBank:            {"jpbank_"},
	model.IssuerInsurance:       {"jpins_"},
	model.IssuerGeneralCompany:  {"jpcrp_", "jpfr-", "jpdei_cor:"},
}

// profileOrder is the fixed total order over profiles. Only a strictly
// highest score wins; any tie at the top falls through to general_company,
// which is last as the default profile.
var profileOrder = []model.IssuerType{
	model.IssuerInvestmentTrust,
	model.IssuerBank,
	model.IssuerInsurance,
	model.IssuerGeneralCompany,
}

// Classify returns the issuer type whose signature identifiers are most
// represented in the input set. A profile wins only with a strictly higher
// score than every other; ties and all-zero inputs classify as
// general_company. Classification is total and deterministic for a given
// identifier set, independent of input ordering.
func Classify(identifiers map[string]struct{}) model.IssuerType {
	scores := Scores(identifiers)

	best := model.IssuerGeneralCompany
	bestScore := 0
	tied := false
	for _, issuer := range profileOrder {
		switch s := scores[issuer]; {
		case s > bestScore:
			best = issuer
			bestScore = s
			tied = false
		case s == bestScore && s > 0:
			tied = true
		}
	}
	if tied || bestScore == 0 {
		return model.IssuerGeneralCompany
	}
	return best
}

// Scores counts, per issuer type, how many identifiers carry one of its
// signature prefixes.
func Scores(identifiers map[string]struct{}) map[model.IssuerType]int {
	scores := make(map[model.IssuerType]int, len(signaturePrefixes))
	for issuer, prefixes := range signaturePrefixes {
		n := 0
		for id := range identifiers {
			for _, p := range prefixes {
				if strings.HasPrefix(id, p) {
					n++
					break
				}
			}
		}
		scores[issuer] = n
	}
	return scores
}
