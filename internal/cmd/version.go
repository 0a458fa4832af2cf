package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/markup/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform. Use --verbose for all of it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := loadLocal(cmd)
			if err != nil {
				return err
			}
			return l.out.Format(versionView{Info: version.GetInfo(), verbose: l.cc.Verbose})
		},
	}
}
