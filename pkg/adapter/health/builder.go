// pkg/adapter/health/builder.go
package health

import (
	domainhealth "github.com/njweb/webapi/pkg/domain/health"
)

// Builder collects registrations for a Checker. Registration errors are
// reported by Build.
type Builder struct {
	factory *Factory
	opts    []domainhealth.Option
}

// NewBuilder creates a Builder on factory. A nil factory uses NewFactory.
func NewBuilder(factory *Factory) *Builder {
	if factory == nil {
		factory = NewFactory()
	}
	return &Builder{factory: factory}
}

// AddCheck registers probe under name.
func (b *Builder) AddCheck(name string, probe domainhealth.Probe, failureStatus domainhealth.Status, tags ...string) *Builder {
	b.opts = append(b.opts, b.factory.AddCheck(name, probe, failureStatus, tags...))
	return b
}

// AddGCCheck registers the GC memory probe under name.
func (b *Builder) AddGCCheck(name string, failureStatus domainhealth.Status, tags []string, opts ...GCOption) *Builder {
	b.opts = append(b.opts, b.factory.AddGCCheck(name, failureStatus, tags, opts...))
	return b
}

// Options returns the collected registrations as checker options.
func (b *Builder) Options() []domainhealth.Option {
	out := make([]domainhealth.Option, len(b.opts))
	copy(out, b.opts)
	return out
}

// Build creates the Checker. opts are applied after the registrations.
func (b *Builder) Build(opts ...domainhealth.Option) (domainhealth.Checker, error) {
	return b.factory.NewChecker(append(b.Options(), opts...)...)
}
