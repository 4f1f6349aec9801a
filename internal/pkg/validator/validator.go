package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("cpfcnpj", validCPFCNPJ)
}

// validCPFCNPJ accepts a bare 11-digit CPF or 14-digit CNPJ with valid check
// digits. Formatting characters must be stripped by the caller.
func validCPFCNPJ(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	switch len(s) {
	case 11:
		return validCPF(s)
	case 14:
		return validCNPJ(s)
	}
	return false
}

func validCPF(s string) bool {
	d, ok := digits(s)
	if !ok || allSame(d) {
		return false
	}
	return d[9] == cpfCheckDigit(d[:9], 10) && d[10] == cpfCheckDigit(d[:10], 11)
}

// cpfCheckDigit weighs the digits from firstWeight down to 2. A remainder of
// 10 collapses to 0 per the registry's rule.
func cpfCheckDigit(d []int, firstWeight int) int {
	sum := 0
	for i, v := range d {
		sum += v * (firstWeight - i)
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func validCNPJ(s string) bool {
	d, ok := digits(s)
	if !ok || allSame(d) {
		return false
	}
	return d[12] == cnpjCheckDigit(d[:12]) && d[13] == cnpjCheckDigit(d[:13])
}

func cnpjCheckDigit(d []int) int {
	weights := cnpjWeights[len(cnpjWeights)-len(d):]
	sum := 0
	for i, v := range d {
		sum += v * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func digits(s string) ([]int, bool) {
	out := make([]int, len(s))
	for i, c := range s {
		if c < '0' || c > '9' {
			return nil, false
		}
		out[i] = int(c - '0')
	}
	return out, true
}

// allSame rejects degenerate documents like 00000000000, which pass the
// checksum but are not issued.
func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}

// Validate returns field->tag for every failed rule, nil when valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}
