package submission

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "applyform/pkg/domain-errors"
)

func formFixture(t *testing.T, mutate func(m map[string]any)) json.RawMessage {
	t.Helper()
	base := map[string]any{
		"tenant_details": map[string]any{
			"full_name": "Jane van Doe",
			"email":     "jane@example.com",
			"telephone": "07000000000",
		},
		"address_history": []any{
			map[string]any{"address": "1 Old Road", "from_date": "2020-01-01", "to_date": "2023-06-01"},
			map[string]any{"address": "2 New Street", "from_date": "2023-06-01"},
		},
		"occupation_agreement": map[string]any{
			"single_occupancy_agree": true,
			"hmo_terms_agree":        true,
			"no_unlisted_occupants":  true,
			"no_smoking":             true,
			"kitchen_cooking_only":   true,
		},
		"consent_and_declaration": map[string]any{
			"consent_given": true,
			"declaration": map[string]any{
				"main_home":                true,
				"enquiries_permission":     true,
				"certify_no_judgements":    true,
				"certify_no_housing_debt":  true,
				"certify_no_landlord_debt": true,
				"certify_no_abuse":         true,
			},
		},
	}
	if mutate != nil {
		mutate(base)
	}
	raw, err := json.Marshal(base)
	require.NoError(t, err)
	return raw
}

func TestParseFormAcceptsValidPayload(t *testing.T) {
	form, err := ParseForm(formFixture(t, nil))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", form.TenantDetails.Email)
}

func TestParseFormRejections(t *testing.T) {
	cases := []struct {
		name    string
		payload json.RawMessage
		problem string
	}{
		{
			name:    "empty payload",
			payload: nil,
			problem: "required",
		},
		{
			name:    "malformed json",
			payload: json.RawMessage(`{"tenant_details":`),
			problem: "malformed",
		},
		{
			name: "missing name",
			payload: formFixture(t, func(m map[string]any) {
				m["tenant_details"].(map[string]any)["full_name"] = "  "
			}),
			problem: "full name",
		},
		{
			name: "no address history",
			payload: formFixture(t, func(m map[string]any) {
				m["address_history"] = []any{}
			}),
			problem: "address",
		},
		{
			name: "no current address",
			payload: formFixture(t, func(m map[string]any) {
				m["address_history"] = []any{
					map[string]any{"address": "1 Old Road", "from_date": "2020-01-01", "to_date": "2023-06-01"},
				}
			}),
			problem: "current address",
		},
		{
			name: "two current addresses",
			payload: formFixture(t, func(m map[string]any) {
				m["address_history"] = []any{
					map[string]any{"address": "1 Old Road", "from_date": "2020-01-01"},
					map[string]any{"address": "2 New Street", "from_date": "2023-06-01"},
				}
			}),
			problem: "one current address",
		},
		{
			name: "agreement not accepted",
			payload: formFixture(t, func(m map[string]any) {
				m["occupation_agreement"].(map[string]any)["no_smoking"] = false
			}),
			problem: "occupation agreement",
		},
		{
			name: "consent withheld",
			payload: formFixture(t, func(m map[string]any) {
				m["consent_and_declaration"].(map[string]any)["consent_given"] = false
			}),
			problem: "consent",
		},
		{
			name: "declaration incomplete",
			payload: formFixture(t, func(m map[string]any) {
				decl := m["consent_and_declaration"].(map[string]any)["declaration"].(map[string]any)
				decl["certify_no_abuse"] = false
			}),
			problem: "declaration",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseForm(tc.payload)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			assert.True(t, strings.Contains(err.Error(), tc.problem),
				"error %q should mention %q", err.Error(), tc.problem)
		})
	}
}

func TestNameTokens(t *testing.T) {
	cases := []struct {
		fullName    string
		first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane van Doe", "Jane", "Doe"},
		{"Jane O'Hara-Smith", "Jane", "OHaraSmith"},
		{"  Jane  ", "Jane", "Jane"},
		{"", "", ""},
	}

	for _, tc := range cases {
		form := &FormData{}
		form.TenantDetails.FullName = tc.fullName
		first, last := form.NameTokens()
		assert.Equal(t, tc.first, first, tc.fullName)
		assert.Equal(t, tc.last, last, tc.fullName)
	}
}
