package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type documentHolder struct {
	Document string `validate:"omitempty,cpfcnpj"`
}

func TestValidate_CPFCNPJ(t *testing.T) {
	cases := []struct {
		name     string
		document string
		valid    bool
	}{
		{"empty is allowed", "", true},
		{"valid cpf", "52998224725", true},
		{"cpf with wrong check digit", "52998224724", false},
		{"cpf with swapped digits", "52998224752", false},
		{"repeated-digit cpf", "11111111111", false},
		{"valid cnpj", "11222333000181", true},
		{"cnpj with wrong check digit", "11222333000180", false},
		{"repeated-digit cnpj", "00000000000000", false},
		{"formatted document rejected", "529.982.247-25", false},
		{"wrong length", "5299822472", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := Validate(documentHolder{Document: tc.document})
			if tc.valid {
				assert.Nil(t, errs)
			} else {
				assert.Equal(t, "cpfcnpj", errs["Document"])
			}
		})
	}
}
