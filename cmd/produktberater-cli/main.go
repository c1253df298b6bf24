package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"yashubustudio/produktberater/catalog"
	"yashubustudio/produktberater/internal/logging"
)

type cliState struct {
	configPath string
	dataPath   string
	imageDir   string
	verbose    bool

	cfg    catalog.Config
	logger *zap.Logger
	svc    *catalog.Service
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{}
	root := &cobra.Command{
		Use:   "produktberater-cli",
		Short: "Browse and filter the Eimü product sheet from the terminal",
		Long: `produktberater-cli reads the two-row-header product sheet (E-B.csv),
lists its filter categories and prints the products matching a selection.

Categories are combined with AND, subcategories of one category with OR.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return st.init(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if st.logger != nil {
				_ = st.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", "", "Path to config.json or config.yaml (default: ./config.json)")
	root.PersistentFlags().StringVar(&st.dataPath, "data", "", "Product sheet to load (overrides the config)")
	root.PersistentFlags().StringVar(&st.imageDir, "images", "", "Directory holding product pictures (overrides the config)")
	root.PersistentFlags().BoolVarP(&st.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(newCategoriesCmd(st), newFilterCmd(st), newValidateCmd(st))
	return root
}

func (st *cliState) init(cmd *cobra.Command) error {
	cfg, err := catalog.LoadConfig(strings.TrimSpace(st.configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(st.dataPath); v != "" {
		cfg.DataPath = v
	}
	if v := strings.TrimSpace(st.imageDir); v != "" {
		cfg.ImageDir = v
	}
	level := cfg.LogLevel
	if st.verbose {
		level = "debug"
	}
	st.cfg = cfg
	st.logger = logging.New(logging.Config{Level: level, Output: cmd.ErrOrStderr()})
	st.svc = catalog.NewService(cfg, st.logger)
	return nil
}
