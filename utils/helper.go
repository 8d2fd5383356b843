package utils

import (
	"fmt"
	"os"

	"github.com/ttacon/libphonenumber"
)

func getCountryCode() string {
	if v := os.Getenv("PHONE_COUNTRY_CODE"); v != "" {
		return v
	}
	return "NL"
}

// NormalizePhoneNumber validates phoneNumber for the default region and returns it in E.164.
func NormalizePhoneNumber(phoneNumber string) (string, error) {
	p, err := libphonenumber.Parse(phoneNumber, getCountryCode())
	if err != nil {
		return "", err
	}
	if !libphonenumber.IsValidNumber(p) {
		return "", fmt.Errorf("phone number is not valid")
	}
	return libphonenumber.Format(p, libphonenumber.E164), nil
}

func NewString(s string) *string {
	return &s
}
