package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:   "storesyncd",
	Short: "storesyncd synchronizes store form data with the tabular store",
	Long: `storesyncd serves the store form's read and write entry points and
orchestrates them against the external tabular data store: resolving store
names, fan-out reads of the child tables, and delete-then-insert saves.`,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
