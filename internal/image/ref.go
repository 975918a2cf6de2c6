package image

import (
	"fmt"

	"github.com/distribution/reference"
)

// Reference is a validated image reference with an explicit tag.
type Reference struct {
	named reference.NamedTagged
}

// ParseReference validates a registry-path:tag string. References without a
// tag are normalized to :latest, matching what the container runtime would
// resolve anyway.
func ParseReference(s string) (Reference, error) {
	if s == "" {
		return Reference{}, fmt.Errorf("image reference must not be empty")
	}

	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return Reference{}, fmt.Errorf("invalid image reference %q: %w", s, err)
	}

	tagged, ok := reference.TagNameOnly(named).(reference.NamedTagged)
	if !ok {
		// Digest-only references have no tag to normalize onto.
		return Reference{}, fmt.Errorf("image reference %q must use a tag, not a digest", s)
	}

	return Reference{named: tagged}, nil
}

// String returns the familiar (un-normalized) form, e.g.
// "mcr.microsoft.com/mssql/server:2019-latest".
func (r Reference) String() string {
	return reference.FamiliarString(r.named)
}

// Tag returns the tag portion of the reference.
func (r Reference) Tag() string {
	return r.named.Tag()
}

// Name returns the repository path without the tag.
func (r Reference) Name() string {
	return reference.FamiliarName(r.named)
}

// IsZero reports whether the reference is unset.
func (r Reference) IsZero() bool {
	return r.named == nil
}
