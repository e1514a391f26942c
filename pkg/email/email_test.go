package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveNameFromEmail(t *testing.T) {
	cases := []struct {
		email       string
		first, last string
	}{
		{"jane.doe@example.com", "Jane", "Doe"},
		{"jane_van.doe@example.com", "Jane", "Doe"},
		{"jane@example.com", "Jane", "Applicant"},
		{"jane+lettings@example.com", "Jane", "Lettings"},
		{"@example.com", "Applicant", "Applicant"},
		{"", "Applicant", "Applicant"},
	}

	for _, tc := range cases {
		first, last := DeriveNameFromEmail(tc.email)
		assert.Equal(t, tc.first, first, tc.email)
		assert.Equal(t, tc.last, last, tc.email)
	}
}
