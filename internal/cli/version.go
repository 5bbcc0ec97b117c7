package cli

import "github.com/spf13/cobra"

// NewVersionCommand создает команду version
func NewVersionCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			opts.IO.Printf("isync\n")
			opts.IO.Printf("Version:    %s\n", opts.Build.Version)
			opts.IO.Printf("Build Date: %s\n", opts.Build.BuildDate)
			opts.IO.Printf("Git Commit: %s\n", opts.Build.GitCommit)
		},
	}
}
