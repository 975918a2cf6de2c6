package bootstrap

import (
	"context"

	"github.com/keepdataflow/sqlbox/internal/config"
	"github.com/keepdataflow/sqlbox/internal/container"
	"github.com/keepdataflow/sqlbox/internal/image"
)

// BuildOptions controls the Build operation.
type BuildOptions struct {
	// Tag overrides the configured derived image tag.
	Tag string
}

// RenderDockerfile renders the derived image's Dockerfile without touching
// a runtime, for export workflows.
func RenderDockerfile(cfg *config.Config) (string, error) {
	b := &Bootstrapper{Config: cfg}
	derived, err := b.derivedImage()
	if err != nil {
		return "", err
	}
	return derived.Dockerfile(), nil
}

// Build renders the derived engine image definition and builds it: base
// image, required environment baked in, engine port exposed, server
// executable as the default command.
func (b *Bootstrapper) Build(ctx context.Context, opts BuildOptions) (string, error) {
	derived, err := b.derivedImage()
	if err != nil {
		return "", err
	}

	tag := opts.Tag
	if tag == "" {
		tag = b.Config.Build.Tag
	}
	if _, err := image.ParseReference(tag); err != nil {
		return "", err
	}

	if err := b.Runtime.Pull(ctx, derived.Base.String()); err != nil {
		return "", err
	}

	if err := b.Runtime.Build(ctx, container.BuildSpec{
		Tag:        tag,
		Dockerfile: derived.Dockerfile(),
	}); err != nil {
		return "", err
	}

	return tag, nil
}
