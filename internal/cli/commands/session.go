package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/conduit-lang/ogm/internal/config"
	"github.com/conduit-lang/ogm/internal/logging"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
	"github.com/conduit-lang/ogm/internal/orm/schema"
	"github.com/conduit-lang/ogm/internal/utils"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	manifests  []string
	packages   []string
	noColor    bool
	logLevel   string
}

// session is the loaded configuration, logger and finished registry of one
// command invocation.
type session struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *schema.Registry
}

// config loads the configuration file and applies flag overrides.
func (o *globalOptions) config() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if len(o.manifests) > 0 {
		cfg.Domain.Manifests = o.manifests
	}
	if len(o.packages) > 0 {
		cfg.Domain.Packages = o.packages
	}
	if o.logLevel != "" {
		if _, err := zapcore.ParseLevel(o.logLevel); err != nil {
			return nil, errors.Newf("--log-level: unknown level %q", o.logLevel)
		}
		cfg.Logging.Level = o.logLevel
	}
	return cfg, nil
}

// open loads the domain descriptors and builds the registry. It fails when
// no domain is configured.
func (o *globalOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireDomain(); err != nil {
		return nil, err
	}
	return openWith(cmd, cfg)
}

func openWith(cmd *cobra.Command, cfg *config.Config) (*session, error) {
	logger := logging.NewTo(cfg, cmd.ErrOrStderr())

	classes, err := loadDescriptors(cfg, logger)
	if err != nil {
		return nil, err
	}

	reg := schema.Build(classes, schema.WithLogger(logger))
	return &session{cfg: cfg, logger: logger, registry: reg}, nil
}

// loadDescriptors reads every configured manifest, then scans every
// configured package. A manifest directory stands for the manifests beneath
// it.
func loadDescriptors(cfg *config.Config, logger *zap.Logger) ([]*descriptor.Class, error) {
	paths, err := utils.ExpandManifests(cfg.Domain.Manifests)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list manifests")
	}

	var classes []*descriptor.Class
	for _, path := range paths {
		loaded, err := descriptor.LoadManifestFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("loaded manifest", zap.String("path", path), zap.Int("classes", len(loaded)))
		classes = append(classes, loaded...)
	}

	if len(cfg.Domain.Packages) > 0 {
		scanned, err := descriptor.NewScanner(descriptor.WithScanLogger(logger)).Scan(cfg.Domain.Packages...)
		if err != nil {
			return nil, err
		}
		classes = append(classes, scanned...)
	}
	return classes, nil
}
