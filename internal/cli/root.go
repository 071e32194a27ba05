// Package cli implements the toolgen command line.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/toolbench/internal/decor"
	"github.com/sundayezeilo/toolbench/internal/render"
	"github.com/sundayezeilo/toolbench/internal/tool"
	"github.com/sundayezeilo/toolbench/internal/tool/catalog"
)

// Version is the CLI version, set at build time.
var Version = "dev"

// app is the state shared by every command of one invocation.
type app struct {
	cfgFile string
	cfg     *Config

	registry *tool.Registry
	deco     decor.Provider
	renderer *render.Renderer
}

// NewRootCmd builds the toolgen command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "toolgen",
		Version: Version,
		Short:   "Render the toolbench generator tools from the terminal",
		Long: `toolgen runs the toolbench catalog locally:
- list and search the generator tools
- render a tool from flags or a YAML file
- generate with the simulated delay
- build color palettes and short links`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default $HOME/.toolgen.yaml)")

	root.AddCommand(
		a.listCmd(),
		a.showCmd(),
		a.renderCmd(),
		a.generateCmd(),
		a.paletteCmd(),
		a.shortenCmd(),
		a.linksCmd(),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func (a *app) init() error {
	cfg, err := LoadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	registry, err := catalog.New()
	if err != nil {
		return fmt.Errorf("failed to load tool catalog: %w", err)
	}
	a.registry = registry
	a.deco = decor.NewFaker(cfg.Seed)
	a.renderer = render.New(render.Options{
		CodeStyle: cfg.CodeStyle,
		TermStyle: cfg.TermStyle,
		Width:     cfg.Width,
	})
	return nil
}

// format resolves a --format flag, falling back to the configured default.
func (a *app) format(flag string) (render.Format, error) {
	if flag == "" {
		flag = a.cfg.Format
	}
	return render.ParseFormat(flag)
}
