// Package tenant models companies (tenants), their members and locations, and
// the Scope value that every tenant-bound data access must carry.
package tenant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/forgeledger/backend/internal/domain/shared"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Status represents the status of a tenant
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid checks if the status is a valid value
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

const (
	maxNameLength = 200
	maxSlugLength = 100
	// DefaultCurrency is applied to documents that do not name one.
	DefaultCurrency = "INR"
)

// Tenant is an isolated company workspace. Tenants are never merged and never
// hard-deleted; deactivation is a status flip.
type Tenant struct {
	shared.BaseAggregateRoot
	Name     string
	Slug     string
	Status   Status
	Currency string
}

// NewTenant creates an active tenant. slug must already be normalized and
// checked for global uniqueness by the caller.
func NewTenant(name, slug string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewFieldError("name", "Company name cannot be empty", name)
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return nil, shared.NewFieldError("name", "Company name cannot exceed 200 characters", name)
	}
	if err := ValidateSlug(slug); err != nil {
		return nil, err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Slug:              slug,
		Status:            StatusActive,
		Currency:          DefaultCurrency,
	}
	t.AddDomainEvent(NewRegisteredEvent(t))
	return t, nil
}

// IsActive reports whether the tenant accepts scoped operations.
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}

// Deactivate soft-deactivates the tenant.
func (t *Tenant) Deactivate() error {
	if t.Status == StatusInactive {
		return shared.NewConflictError("Company is already inactive")
	}
	t.Status = StatusInactive
	t.Touch()
	return nil
}

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace   = regexp.MustCompile(`\s+`)
	slugDashes       = regexp.MustCompile(`-+`)
	slugPattern      = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// NormalizeSlug turns a free-form company name or requested slug into a URL
// slug: accents stripped, lower-cased, [a-z0-9-] only, dashes collapsed.
func NormalizeSlug(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(strings.TrimSpace(folded))
	out = slugInvalidChars.ReplaceAllString(out, "")
	out = slugWhitespace.ReplaceAllString(out, "-")
	out = slugDashes.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	if len(out) > maxSlugLength {
		out = strings.TrimRight(out[:maxSlugLength], "-")
	}
	return out
}

// ValidateSlug checks an already-normalized slug.
func ValidateSlug(slug string) error {
	if slug == "" {
		return shared.NewFieldError("slug", "Slug cannot be empty", slug)
	}
	if len(slug) > maxSlugLength {
		return shared.NewFieldError("slug", "Slug cannot exceed 100 characters", slug)
	}
	if !slugPattern.MatchString(slug) {
		return shared.NewFieldError("slug", "Slug may contain only lowercase letters, digits and single dashes", slug)
	}
	return nil
}
