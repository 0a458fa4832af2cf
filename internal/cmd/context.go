package cmd

import (
	"github.com/spf13/cobra"
)

// CommandContext holds the global flags of one invocation.
// Commands call NewCommandContext in RunE instead of reading package state.
type CommandContext struct {
	// Output control
	Verbose bool
	Format  string
	NoColor bool

	// Configuration
	Home     string
	APIURL   string
	LogLevel string

	// formatSet and noColorSet record whether the flag was given explicitly,
	// so config file defaults only apply when it was not.
	formatSet  bool
	noColorSet bool
}

// NewCommandContext extracts the persistent flags from cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	flags := cmd.Flags()

	verbose, err := flags.GetBool("verbose")
	if err != nil {
		return nil, err
	}

	format, err := flags.GetString("format")
	if err != nil {
		return nil, err
	}

	noColor, err := flags.GetBool("no-color")
	if err != nil {
		return nil, err
	}

	home, err := flags.GetString("home")
	if err != nil {
		return nil, err
	}

	apiURL, err := flags.GetString("api-url")
	if err != nil {
		return nil, err
	}

	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Verbose:    verbose,
		Format:     format,
		NoColor:    noColor,
		Home:       home,
		APIURL:     apiURL,
		LogLevel:   logLevel,
		formatSet:  flags.Changed("format"),
		noColorSet: flags.Changed("no-color"),
	}, nil
}
