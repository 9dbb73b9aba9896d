package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yourusername/reserved/logging"
	"github.com/yourusername/reserved/services"
	"go.uber.org/zap"
)

// RegistryFactory builds the registry a command operates on.
type RegistryFactory func(ctx context.Context, cfg *services.Config, log *zap.SugaredLogger, hooks services.Hooks) (*services.Registry, error)

type Config struct {
	ConfigPath   string
	OutputWriter io.Writer
	NewRegistry  RegistryFactory
	Logger       *zap.SugaredLogger
}

type runtimeState struct {
	configPath  string
	debug       bool
	cfg         *services.Config
	log         *zap.SugaredLogger
	newRegistry RegistryFactory
	writer      io.Writer
}

type runtimeKey struct{}

func DefaultConfig() Config {
	path := os.Getenv("RESERVED_CONFIG")
	if path == "" {
		path = "config.yaml"
	}
	return Config{
		ConfigPath:   path,
		OutputWriter: os.Stdout,
		NewRegistry:  services.NewFromConfig,
	}
}

func NewRootCommand(cfg Config) *cobra.Command {
	rt := &runtimeState{configPath: cfg.ConfigPath, writer: cfg.OutputWriter, newRegistry: cfg.NewRegistry, log: cfg.Logger}

	root := &cobra.Command{
		Use:           "reserved",
		Short:         "Reserved username registry",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if rt.writer == nil {
				rt.writer = cmd.OutOrStdout()
			}
			if rt.newRegistry == nil {
				rt.newRegistry = services.NewFromConfig
			}
			if !rt.debug {
				rt.debug = strings.EqualFold(os.Getenv("RESERVED_DEBUG"), "true")
			}
			if rt.log == nil {
				rt.log = logging.New(rt.debug)
			}
			if cmd.Name() == "token" {
				return nil
			}
			c, err := services.LoadConfig(rt.configPath)
			if err != nil {
				return err
			}
			rt.cfg = c
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if rt.log != nil {
				_ = rt.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&rt.configPath, "config", rt.configPath, "Path to config file")
	root.PersistentFlags().BoolVar(&rt.debug, "debug", false, "Enable development logging")

	root.SetContext(context.WithValue(context.Background(), runtimeKey{}, rt))

	root.AddCommand(
		newServeCommand(),
		newCheckCommand(),
		newSuggestCommand(),
		newValidateCommand(),
		newStatsCommand(),
		newListCommand(),
		newExportCommand(),
		newImportCommand(),
		newRefreshCommand(),
		newClearCacheCommand(),
		newTokenCommand(),
	)
	return root
}

func getRuntime(cmd *cobra.Command) *runtimeState {
	if cmd == nil {
		return nil
	}
	if rt, ok := cmd.Context().Value(runtimeKey{}).(*runtimeState); ok {
		return rt
	}
	return nil
}

// registry runs initialization with hooks that log lifecycle signals.
func (rt *runtimeState) registry(cmd *cobra.Command) (*services.Registry, error) {
	hooks := services.Hooks{
		OnUpdated: func(count int) { rt.log.Infow("reserved list updated", "count", count) },
		OnFetchError: func(err error) {
			rt.log.Warnw("reserved list fetch failed", "error", err)
		},
		OnError: func(err error) { rt.log.Errorw("reserved registry failed", "error", err) },
	}
	return rt.newRegistry(cmd.Context(), rt.cfg, rt.log, hooks)
}
