package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var nameFlag string
	var mountFlags []string
	var verbose bool

	ctx := newCommandContext(&configFlag, &nameFlag, &mountFlags, &verbose)

	rootCmd := &cobra.Command{
		Use:           "nsconfig",
		Short:         "Inspect and edit namespaced configuration files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (discovered when empty)")
	rootCmd.PersistentFlags().StringVar(&nameFlag, "name", "config", "Name of the root namespace")
	rootCmd.PersistentFlags().StringArrayVar(&mountFlags, "mount", nil, "Mount a file as a namespace (name=path, repeatable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newGetCommand(ctx))
	rootCmd.AddCommand(newSetCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newDumpCommand(ctx))

	return rootCmd
}
