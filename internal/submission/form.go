package submission

import (
	"encoding/json"
	"strings"
	"unicode"

	dErrors "applyform/pkg/domain-errors"
)

// FormData is the typed view of the accommodation form payload. Only the
// fields the service inspects are modeled; the full payload is retained
// verbatim in the submission's snapshot.
type FormData struct {
	TenantDetails struct {
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Telephone string `json:"telephone"`
	} `json:"tenant_details"`

	AddressHistory []struct {
		Address  string  `json:"address"`
		FromDate string  `json:"from_date"`
		ToDate   *string `json:"to_date"` // nil means current address
	} `json:"address_history"`

	OccupationAgreement struct {
		SingleOccupancyAgree bool `json:"single_occupancy_agree"`
		HMOTermsAgree        bool `json:"hmo_terms_agree"`
		NoUnlistedOccupants  bool `json:"no_unlisted_occupants"`
		NoSmoking            bool `json:"no_smoking"`
		KitchenCookingOnly   bool `json:"kitchen_cooking_only"`
	} `json:"occupation_agreement"`

	ConsentAndDeclaration struct {
		ConsentGiven bool `json:"consent_given"`
		Declaration  struct {
			MainHome              bool `json:"main_home"`
			EnquiriesPermission   bool `json:"enquiries_permission"`
			CertifyNoJudgements   bool `json:"certify_no_judgements"`
			CertifyNoHousingDebt  bool `json:"certify_no_housing_debt"`
			CertifyNoLandlordDebt bool `json:"certify_no_landlord_debt"`
			CertifyNoAbuse        bool `json:"certify_no_abuse"`
		} `json:"declaration"`
	} `json:"consent_and_declaration"`
}

// ParseForm decodes and validates a raw form payload.
func ParseForm(raw json.RawMessage) (*FormData, error) {
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "form payload is required")
	}

	var form FormData
	if err := json.Unmarshal(raw, &form); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "malformed form payload")
	}

	if problems := form.validate(); len(problems) > 0 {
		return nil, dErrors.New(dErrors.CodeValidation, strings.Join(problems, "; "))
	}
	return &form, nil
}

func (f *FormData) validate() []string {
	var problems []string

	if strings.TrimSpace(f.TenantDetails.FullName) == "" {
		problems = append(problems, "tenant full name is required")
	}

	if len(f.AddressHistory) == 0 {
		problems = append(problems, "at least one address in history is required")
	} else {
		current := 0
		for _, addr := range f.AddressHistory {
			if addr.ToDate == nil {
				current++
			}
		}
		switch {
		case current == 0:
			problems = append(problems, "current address must be specified (no end date)")
		case current > 1:
			problems = append(problems, "only one current address is allowed")
		}
	}

	agr := f.OccupationAgreement
	if !(agr.SingleOccupancyAgree && agr.HMOTermsAgree && agr.NoUnlistedOccupants &&
		agr.NoSmoking && agr.KitchenCookingOnly) {
		problems = append(problems, "all occupation agreement terms must be accepted")
	}

	if !f.ConsentAndDeclaration.ConsentGiven {
		problems = append(problems, "consent must be given")
	}

	decl := f.ConsentAndDeclaration.Declaration
	if !(decl.MainHome && decl.EnquiriesPermission && decl.CertifyNoJudgements &&
		decl.CertifyNoHousingDebt && decl.CertifyNoLandlordDebt && decl.CertifyNoAbuse) {
		problems = append(problems, "all declaration statements must be confirmed")
	}

	return problems
}

// NameTokens returns the first and last name tokens of the applicant with
// filesystem-unsafe characters stripped, for the deterministic file name.
func (f *FormData) NameTokens() (string, string) {
	fields := strings.Fields(f.TenantDetails.FullName)
	if len(fields) == 0 {
		return "", ""
	}
	first := sanitizeToken(fields[0])
	last := sanitizeToken(fields[len(fields)-1])
	return first, last
}

func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
