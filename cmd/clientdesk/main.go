package main

import (
	"fmt"
	"os"

	"github.com/clientdesk/clientdesk/cmd/clientdesk/serve"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "clientdesk",
	Short: "clientdesk manages clients and their orders.",
	Long: `clientdesk is a small client/order management service: a REST API over a
relational store plus an embedded browser frontend, shipped as one binary.`,
}

func init() {
	rootCmd.AddCommand(serve.ServeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
