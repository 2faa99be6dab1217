package documents

import "github.com/goliatone/go-slug"

// AliasNormalizer exposes the slug normalizer used for alias derivation.
type AliasNormalizer = slug.Normalizer

// DefaultAliasGenerator derives a document's content id alias from its
// originating title using the default slug rules. The alias is assigned once
// at creation and never recomputed from later edits.
func DefaultAliasGenerator(title string) (string, error) {
	return slug.Normalize(title)
}

// IsValidAlias reports whether the alias matches the default slug rules.
func IsValidAlias(value string) bool {
	return slug.IsValid(value)
}
