package image

import (
	"fmt"
	"sort"
	"strings"
)

// DerivedImage describes an image layered on a base engine image: the
// required environment baked in, the engine port declared, and the server
// executable as the default command.
type DerivedImage struct {
	// Base is the engine image to derive from.
	Base Reference

	// Env is baked into the image with ENV instructions.
	Env map[string]string

	// ExposePort is declared with EXPOSE.
	ExposePort int

	// Cmd is the container's default startup command.
	Cmd []string
}

// Dockerfile renders the derived image definition. Env keys are emitted in
// sorted order so the output is deterministic.
func (d DerivedImage) Dockerfile() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FROM %s\n", d.Base.String())

	keys := make([]string, 0, len(d.Env))
	for k := range d.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "ENV %s=%s\n", k, envQuote(d.Env[k]))
	}

	if d.ExposePort > 0 {
		fmt.Fprintf(&b, "EXPOSE %d\n", d.ExposePort)
	}

	if len(d.Cmd) > 0 {
		quoted := make([]string, len(d.Cmd))
		for i, arg := range d.Cmd {
			quoted[i] = fmt.Sprintf("%q", arg)
		}
		fmt.Fprintf(&b, "CMD [%s]\n", strings.Join(quoted, ", "))
	}

	return b.String()
}

// envQuote double-quotes an ENV value. ENV instructions undergo variable
// expansion, so a literal $ (common in SA passwords) must be escaped or the
// builder rewrites the value.
func envQuote(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	v = strings.ReplaceAll(v, `$`, `\$`)
	return `"` + v + `"`
}
