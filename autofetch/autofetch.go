// Package autofetch wires up a Client that supports every URL scheme in this
// module. Using this package will compile a great many dependencies into the
// resulting binary, so unless you need to support all schemes, build an
// fsfetch.Mux with only the resolvers you need instead.
package autofetch

import (
	"io/fs"
	"os"

	"github.com/noxmake/go-fsfetch"
	"github.com/noxmake/go-fsfetch/blobfs"
	"github.com/noxmake/go-fsfetch/filefs"
	"github.com/noxmake/go-fsfetch/gitfs"
	"github.com/noxmake/go-fsfetch/httpfs"
	"github.com/noxmake/go-fsfetch/internal/env"
	"github.com/noxmake/go-fsfetch/pkgfs"
	"github.com/noxmake/go-fsfetch/tracing"
)

// Environment variables read by ConfigFromEnv. Each can also be given as a
// path to a file holding the value, by appending _FILE to the name.
const (
	// EnvSSLVerify disables server certificate verification when set to
	// "false" (in any case). Any other value keeps verification on.
	EnvSSLVerify = "NOXMAKE_SSL_VERIFY"
	// EnvResourcePath lists directories searched for packages, separated by
	// the OS path list separator.
	EnvResourcePath = "NOXMAKE_RESOURCE_PATH"
)

// Config holds the settings shared by all resolvers.
type Config struct {
	// Packages holds the packages available to pymod:// URLs. When nil, an
	// empty registry is used.
	Packages *pkgfs.Registry
	// ResourcePath is added to the search path of a copy of Packages;
	// Packages itself is never modified.
	ResourcePath []string
	// SSLVerify enables server certificate verification for https:// URLs.
	SSLVerify bool
	// Trace instruments the resolvers with OpenTelemetry, using the global
	// tracer provider and propagators.
	Trace bool
}

// ConfigFromEnv returns the configuration given by the environment.
func ConfigFromEnv() Config {
	return configFromEnvFS(os.DirFS("/"))
}

func configFromEnvFS(fsys fs.FS) Config {
	return Config{
		SSLVerify:    env.BoolFS(fsys, EnvSSLVerify, true),
		ResourcePath: env.ListFS(fsys, EnvResourcePath),
	}
}

// NewMux returns a Mux with every resolver in this module registered.
func NewMux(cfg Config) fsfetch.Mux {
	// cfg.Packages may be shared with other clients, so it's copied, not
	// extended
	reg := cfg.Packages.WithSearchPath(cfg.ResourcePath...)

	mux := fsfetch.NewMux()
	mux.Add(filefs.New())
	mux.Add(pkgfs.New(reg))
	mux.Add(httpfs.New(httpfs.WithTLSVerify(cfg.SSLVerify)))
	mux.Add(blobfs.New())
	mux.Add(gitfs.New())

	return mux
}

// New returns a Client reading through NewMux(cfg).
func New(cfg Config, opts ...fsfetch.Option) *fsfetch.Client {
	var r fsfetch.Resolver = NewMux(cfg)
	if cfg.Trace {
		r = tracing.New(r)
	}

	return fsfetch.NewClient(r, opts...)
}
