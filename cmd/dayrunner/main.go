package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dayrunner",
	Short: "Dayrunner - authenticated Python runner and progress browser",
	Long: `Dayrunner serves an authenticated HTTP API that browses a daily-progress
GitHub repository (day folders of Python files) and executes submitted
Python code in a timeout-bounded child process.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
