package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit markup configuration",
		Long: `Manage configuration stored at <home>/config.yaml.

Values are resolved with precedence flags > environment > file > defaults.
Environment variables: MARKUP_HOME, MARKUP_API_URL, MARKUP_HTTP_TIMEOUT,
MARKUP_LOG_LEVEL and MARKUP_TOKEN_PASSPHRASE. A .env file in the working
directory is loaded first.

Examples:
  # View the effective configuration
  markup config view

  # Get a specific value
  markup config get api.base_url

  # Set a specific value
  markup config set api.base_url https://markup.example.com

  # Show configuration file path
  markup config path
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "view",
			Short: "Display the effective configuration",
			Args:  cobra.NoArgs,
			RunE:  runConfigView,
		},
		&cobra.Command{
			Use:       "get <key>",
			Short:     "Get a configuration value",
			Long:      `Print one value of the effective configuration using dot notation (e.g., api.timeout).`,
			Args:      cobra.ExactArgs(1),
			ValidArgs: config.Keys(),
			RunE:      runConfigGet,
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Set a configuration value",
			Long: `Set one value in the configuration file using dot notation
(e.g., logging.level debug). Environment and flags still take precedence.`,
			Args: cobra.ExactArgs(2),
			RunE: runConfigSet,
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration file path",
			Args:  cobra.NoArgs,
			RunE:  runConfigPath,
		},
	)
	return configCmd
}

// configText renders the configuration as key = value lines.
type configText struct {
	cfg *config.Config
}

func (c configText) WriteText(w io.Writer) error {
	for _, key := range config.Keys() {
		v, err := c.cfg.Get(key)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", key, v); err != nil {
			return err
		}
	}
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	l, err := loadLocal(cmd)
	if err != nil {
		return err
	}
	if l.format == "text" || l.format == "" {
		return l.out.Format(configText{cfg: l.cfg})
	}
	return l.out.Format(l.cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	l, err := loadLocal(cmd)
	if err != nil {
		return err
	}
	v, err := l.cfg.Get(args[0])
	if err != nil {
		return err
	}
	return l.out.Format(v)
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	l, err := loadLocal(cmd)
	if err != nil {
		return err
	}

	// edit the file as written, without env or flag overrides
	cfg, err := config.Load(l.home)
	if err != nil {
		return err
	}
	if err := cfg.Set(args[0], args[1]); err != nil {
		return err
	}
	if err := config.Save(l.home, cfg); err != nil {
		return err
	}

	v, _ := cfg.Get(args[0])
	return l.out.Format(messageView{Message: fmt.Sprintf("%s = %s", args[0], v)})
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	l, err := loadLocal(cmd)
	if err != nil {
		return err
	}
	return l.out.Format(config.Path(l.home))
}
