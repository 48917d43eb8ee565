// Package cli implements the langcompat CLI commands.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opensubtitles/langcompat/internal/compat"
	"github.com/opensubtitles/langcompat/internal/logging"
	"github.com/opensubtitles/langcompat/internal/store"
)

// DataEnv names the environment variable holding the matrix file location.
const DataEnv = "LANGCOMPAT_DATA"

type options struct {
	dataPath  string
	format    string
	logLevel  string
	logFormat string
}

// NewRootCmd builds the top-level command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "langcompat",
		Short:         "Translation compatibility scores between languages",
		Long:          "Query a precomputed matrix of directional translation-compatibility scores (0-255): direct lookups, fallback chains, pivot languages and family scores.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&o.dataPath, "data", "d", "", "Matrix file, .json or .db (default: $"+DataEnv+" or the bundled dataset)")
	root.PersistentFlags().StringVarP(&o.format, "format", "f", "json", "Output format: json or text")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "Log format: text or json")

	root.AddCommand(
		newGetCmd(o),
		newFallbackCmd(o),
		newPivotCmd(o),
		newPairsCmd(o),
		newLangsCmd(o),
		newFamilyCmd(o),
		newDataCmd(o),
		newStatsCmd(o),
		newRankCmd(o),
		newPathCmd(o),
		newRecommendCmd(o),
		newAsymmetricCmd(o),
		newCorrectCmd(o),
		newExportCmd(o),
		newInfoCmd(o),
	)
	return root
}

// Execute runs the CLI and reports errors on stderr.
func Execute() error {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", cmd.Name(), err)
		return err
	}
	return nil
}

func (o *options) setup(cmd *cobra.Command) error {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	logFormat := logging.FormatText
	switch o.logFormat {
	case "text":
	case "json":
		logFormat = logging.FormatJSON
	default:
		return fmt.Errorf("unknown log format %q (use text or json)", o.logFormat)
	}
	logging.InitLogger(cmd.ErrOrStderr(), level, logFormat)

	if o.format != "json" && o.format != "text" {
		return fmt.Errorf("unknown output format %q (use json or text)", o.format)
	}
	return nil
}

func (o *options) getDataPath() string {
	if o.dataPath != "" {
		return o.dataPath
	}
	return os.Getenv(DataEnv)
}

func (o *options) openStore() store.Store {
	return store.Open(o.getDataPath())
}

func (o *options) openService() (*compat.Service, func()) {
	s := o.openStore()
	return compat.New(s), func() { s.Close() }
}

// emit writes v as indented JSON, or calls text when --format text.
func (o *options) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	w := cmd.OutOrStdout()
	if o.format == "text" && text != nil {
		text(w)
		return nil
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(b))
	return nil
}

// splitCodes flattens arguments that may each hold comma-separated codes.
func splitCodes(args []string) []string {
	var codes []string
	for _, a := range args {
		for _, c := range strings.Split(a, ",") {
			c = strings.TrimSpace(c)
			if c != "" {
				codes = append(codes, c)
			}
		}
	}
	return codes
}
