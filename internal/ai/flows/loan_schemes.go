package flows

import (
	"context"

	"google.golang.org/genai"
)

type LoanSchemeInput struct {
	State    string `json:"state" validate:"required,min=2,max=60"`
	Purpose  string `json:"purpose,omitempty" validate:"omitempty,max=200"`
	Language string `json:"language,omitempty" validate:"omitempty,lang"`
}

// LoanScheme is a generated, read-only description of a credit scheme.
type LoanScheme struct {
	Name         string   `json:"name" validate:"required"`
	Provider     string   `json:"provider" validate:"required"`
	InterestRate string   `json:"interestRate"`
	MaxAmount    string   `json:"maxAmount"`
	Eligibility  []string `json:"eligibility"`
	Description  string   `json:"description"`
	ApplyURL     string   `json:"applyUrl" validate:"omitempty,url"`
}

type LoanSchemeOutput struct {
	Schemes []LoanScheme `json:"schemes" validate:"required,min=1,dive"`
}

var loanSchemeSchema = object(map[string]*genai.Schema{
	"schemes": array("Loan and credit schemes available to the farmer", object(map[string]*genai.Schema{
		"name":         str("Scheme name"),
		"provider":     str("Government body or bank offering the scheme"),
		"interestRate": str("Interest rate or subvention"),
		"maxAmount":    str("Maximum loan amount with currency"),
		"eligibility":  stringList("Eligibility conditions"),
		"description":  str("What the scheme offers"),
		"applyUrl":     str("Official application URL if known"),
	}, "name", "provider")),
}, "schemes")

// FindLoanSchemes lists credit schemes for farmers in a state.
func (f *Flows) FindLoanSchemes(ctx context.Context, in LoanSchemeInput) (*LoanSchemeOutput, error) {
	in.Language = langOrDefault(in.Language)
	if err := f.checkInput(in); err != nil {
		return nil, err
	}
	return generateJSON[LoanSchemeOutput](ctx, f, "loan_schemes.tmpl", in, loanSchemeSchema)
}
