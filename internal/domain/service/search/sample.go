package search

import (
	"maps"

	"mortgage_deals/internal/domain/value"
)

// SampleSource names deals served from the built-in sample set.
const SampleSource = "sample"

// sampleCandidates is the last-resort data set used when neither the
// database nor any live source can answer.
//
//nolint:gochecknoglobals,mnd
var sampleCandidates = []value.Candidate{
	{
		"lenderName": "Nationwide", "productName": "2 Year Fixed", "interestRate": 4.19,
		"dealType": "Fixed", "termYears": 2, "maxLTV": 75, "arrangementFee": 999,
		"freeValuation": true, "overpaymentAllowance": 10, "ercDescription": "2%, 1%",
	},
	{
		"lenderName": "Barclays", "productName": "5 Year Fixed", "interestRate": 4.35,
		"dealType": "Fixed", "termYears": 5, "maxLTV": 60, "arrangementFee": 899,
		"freeValuation": true, "freeLegalWork": true, "overpaymentAllowance": 10,
		"ercDescription": "5%, 4%, 3%, 2%, 1%",
	},
	{
		"lenderName": "HSBC", "productName": "2 Year Tracker", "interestRate": 4.49,
		"dealType": "Tracker", "termYears": 2, "maxLTV": 75, "arrangementFee": 0,
		"cashback": 250, "lenderType": "UK Mainstream",
	},
	{
		"lenderName": "Santander", "productName": "3 Year Fixed", "interestRate": 4.24,
		"dealType": "Fixed", "termYears": 3, "maxLTV": 85, "arrangementFee": 999,
		"valuationFee": 0, "legalFees": 0, "freeLegalWork": true,
	},
	{
		"lenderName": "NatWest", "productName": "5 Year Fixed Remortgage", "interestRate": 4.09,
		"dealType": "Fixed", "termYears": 5, "maxLTV": 60, "arrangementFee": 1495,
		"cashback": 500, "freeValuation": true, "freeLegalWork": true,
	},
	{
		"lenderName": "Coventry Building Society", "productName": "2 Year Fixed", "interestRate": 4.29,
		"dealType": "Fixed", "termYears": 2, "maxLTV": 90, "arrangementFee": 0,
		"lenderType": "Building Society", "overpaymentAllowance": 10,
	},
	{
		"lenderName": "Virgin Money", "productName": "Variable Rate Saver", "interestRate": 5.24,
		"dealType": "Variable", "termYears": 2, "maxLTV": 75, "arrangementFee": 0,
		"ercDescription": "No early repayment charges",
	},
	{
		"lenderName": "Skipton Building Society", "productName": "Track Record 5 Year Fixed",
		"interestRate": 5.49, "dealType": "Fixed", "termYears": 5, "maxLTV": 100,
		"arrangementFee": 0, "lenderType": "Building Society",
	},
}

// SampleCandidates returns a copy of the sample set, e.g. to seed a
// development database through the regular ingestion path.
func SampleCandidates() []value.Candidate {
	out := make([]value.Candidate, 0, len(sampleCandidates))
	for _, c := range sampleCandidates {
		out = append(out, maps.Clone(c))
	}
	return out
}
