package domain

import "strings"

// DocumentType selects which identity-document block of a registry record a
// claim is matched against.
type DocumentType string

const (
	DocumentWWCC    DocumentType = "wwcc"
	DocumentLicense DocumentType = "license"
)

// IdentityDocument is a numbered document with an expiry, kept as the registry
// stores it (expiry is an ISO date string, e.g. "2027-03-31").
type IdentityDocument struct {
	Number string `json:"number" yaml:"number"`
	Expiry string `json:"expiry" yaml:"expiry"`
}

// VerificationRecord is a ground-truth entry in the external registry.
type VerificationRecord struct {
	FirstName string            `json:"first_name" yaml:"first_name"`
	LastName  string            `json:"last_name"  yaml:"last_name"`
	DOB       string            `json:"dob"        yaml:"dob"`
	WWCC      *IdentityDocument `json:"wwcc,omitempty"    yaml:"wwcc,omitempty"`
	License   *IdentityDocument `json:"license,omitempty" yaml:"license,omitempty"`
}

// IdentityClaim is what a principal submits to get verified.
type IdentityClaim struct {
	Username       string
	DocumentType   DocumentType
	FirstName      string
	LastName       string
	DOB            string
	DocumentNumber string
	DocumentExpiry string
}

// Complete reports whether every field required for a match is present.
// Partial claims never reach the registry.
func (c IdentityClaim) Complete() bool {
	if c.DocumentType != DocumentWWCC && c.DocumentType != DocumentLicense {
		return false
	}
	for _, f := range []string{c.FirstName, c.LastName, c.DOB, c.DocumentNumber, c.DocumentExpiry} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

// Matches reports whether the record satisfies every field of the claim.
func (r VerificationRecord) Matches(c IdentityClaim) bool {
	if !c.Complete() {
		return false
	}
	if r.FirstName != c.FirstName || r.LastName != c.LastName || r.DOB != c.DOB {
		return false
	}
	var doc *IdentityDocument
	switch c.DocumentType {
	case DocumentWWCC:
		doc = r.WWCC
	case DocumentLicense:
		doc = r.License
	}
	return doc != nil && doc.Number == c.DocumentNumber && doc.Expiry == c.DocumentExpiry
}
