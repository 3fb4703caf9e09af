package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var hsnPattern = regexp.MustCompile(`^\d{4}(\d{2}){0,2}$`)

// ValidateEndpoint checks that a ledger endpoint is an absolute http(s) URL
func ValidateEndpoint(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint must use http or https: %s", endpoint)
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint has no host: %s", endpoint)
	}
	return nil
}

// ValidateCompanyName rejects blank names and names with control characters
func ValidateCompanyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("company name is empty")
	}
	for _, r := range name {
		if r < 0x20 {
			return fmt.Errorf("company name contains control characters: %q", name)
		}
	}
	return nil
}

// IsValidHSN reports whether code is a 4, 6 or 8 digit HSN code
func IsValidHSN(code string) bool {
	return hsnPattern.MatchString(strings.TrimSpace(code))
}
