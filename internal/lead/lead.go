// Package lead models the contact details captured before the quiz starts.
package lead

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// DefaultSource is the lead source recorded when none is supplied.
const DefaultSource = "AI Readiness Scorecard"

// UTM carries the campaign parameters captured from the landing page URL.
type UTM struct {
	Source   string `json:"source,omitempty" yaml:"source,omitempty"`
	Medium   string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty" yaml:"campaign,omitempty"`
}

// Lead is a visitor's contact details.
type Lead struct {
	FirstName   string `json:"firstName" yaml:"firstName" binding:"required"`
	LastName    string `json:"lastName" yaml:"lastName"`
	Email       string `json:"email" yaml:"email" binding:"required,email"`
	CompanyName string `json:"companyName" yaml:"companyName" binding:"required"`
	JobTitle    string `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
	Turnover    string `json:"turnover,omitempty" yaml:"turnover,omitempty"`
	GDPRConsent bool   `json:"gdprConsent" yaml:"gdprConsent" binding:"required"`
	Source      string `json:"leadSource,omitempty" yaml:"leadSource,omitempty"`
	UTM         *UTM   `json:"utm,omitempty" yaml:"utm,omitempty"`
}

// Validation errors returned by Validate.
var (
	ErrMissingFirstName = errors.New("first name is required")
	ErrMissingEmail     = errors.New("email is required")
	ErrInvalidEmail     = errors.New("email is not a valid address")
	ErrMissingCompany   = errors.New("company name is required")
	ErrNoConsent        = errors.New("GDPR consent is required")
)

// Normalize trims whitespace and fills the default lead source.
func (l Lead) Normalize() Lead {
	l.FirstName = strings.TrimSpace(l.FirstName)
	l.LastName = strings.TrimSpace(l.LastName)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.CompanyName = strings.TrimSpace(l.CompanyName)
	l.JobTitle = strings.TrimSpace(l.JobTitle)
	l.Turnover = strings.TrimSpace(l.Turnover)
	if strings.TrimSpace(l.Source) == "" {
		l.Source = DefaultSource
	}
	return l
}

// Validate applies the same rules as the lead form: first name, a well-formed
// email, company name and consent are mandatory.
func (l Lead) Validate() error {
	var errs []error
	if strings.TrimSpace(l.FirstName) == "" {
		errs = append(errs, ErrMissingFirstName)
	}
	switch email := strings.TrimSpace(l.Email); {
	case email == "":
		errs = append(errs, ErrMissingEmail)
	default:
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidEmail, email))
		}
	}
	if strings.TrimSpace(l.CompanyName) == "" {
		errs = append(errs, ErrMissingCompany)
	}
	if !l.GDPRConsent {
		errs = append(errs, ErrNoConsent)
	}
	return errors.Join(errs...)
}

// FullName joins first and last name.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}
