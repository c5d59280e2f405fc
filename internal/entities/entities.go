// Package entities defines the canonical PII entity taxonomy shared by all
// recognizers, and the mapping from native model label vocabularies into it.
// Both tables are read-only after package initialization.
package entities

// Canonical entity types. Pattern recognizers emit these directly; the
// statistical recognizer reaches them through the native label mapping.
const (
	Person         = "PERSON"
	Location       = "LOCATION"
	Organization   = "ORGANIZATION"
	CreditCard     = "CREDIT_CARD"
	IBANCode       = "IBAN_CODE"
	EmailAddress   = "EMAIL_ADDRESS"
	IPAddress      = "IP_ADDRESS"
	PhoneNumber    = "PHONE_NUMBER"
	Crypto         = "CRYPTO"
	DateTime       = "DATE_TIME"
	URL            = "URL"
	MedicalLicense = "MEDICAL_LICENSE"
	USSSN          = "US_SSN"
	NRP            = "NRP"
)

// Default is the entity set analyzed when a caller does not request
// specific types.
var Default = []string{
	Person,
	Location,
	Organization,
	CreditCard,
	IBANCode,
	EmailAddress,
	IPAddress,
	PhoneNumber,
	Crypto,
	DateTime,
	URL,
	MedicalLicense,
	USSSN,
	NRP,
}

// nativeToCanonical maps native model labels (CoNLL, OntoNotes/spaCy) to
// canonical types. Labels absent from this table have no canonical type and
// their findings are silently dropped.
var nativeToCanonical = map[string]string{
	// CoNLL-2003
	"PER": Person,
	"LOC": Location,
	"ORG": Organization,
	// OntoNotes / spaCy
	"PERSON": Person,
	"GPE":    Location,
	"FAC":    Location,
	"NORP":   NRP,
}

// Canonical returns the canonical entity type for a native model label, or ""
// when the label has no mapping.
func Canonical(native string) string {
	return nativeToCanonical[native]
}

// Statistical lists the canonical types the statistical recognizer can
// produce, i.e. the value set of the native label mapping.
func Statistical() []string {
	seen := make(map[string]bool, len(nativeToCanonical))
	var out []string
	// Iterate the default order so the result is deterministic.
	for _, t := range Default {
		for _, c := range nativeToCanonical {
			if c == t && !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Known reports whether t is a canonical entity type.
func Known(t string) bool {
	for _, d := range Default {
		if d == t {
			return true
		}
	}
	return false
}
