package main

import (
	"errors"
	"fmt"
	"os"
	"transcript-sentiment/client"

	"github.com/spf13/cobra"
)

func main() {
	if err := execute(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// execute runs cmd and reports errors the view has not already shown.
func execute(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil && !errors.Is(err, client.ErrEmptyTranscript) && !errors.Is(err, client.ErrAnalysisFailed) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return err
}
