package main

import (
	"fmt"
	"io"
	"os"
	"time"
	"transcript-sentiment/client"
	"transcript-sentiment/term"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultServer = "http://localhost:8080"

func newRootCmd() *cobra.Command {
	var (
		server  string
		timeout time.Duration
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "transcript-cli [file]",
		Short: "Analyze the patient side of a medical transcript",
		Long: `Sends a physician/patient transcript to the analysis service and prints the
overall and per-utterance sentiment and intent. Patient lines must start with "Patient:".
The transcript is read from file, or from stdin when no file is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			transcript, err := readTranscript(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			logger, err := newLogger(verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			view := term.NewView(cmd.OutOrStdout(), cmd.ErrOrStderr())
			c := client.NewController(client.NewClient(client.ClientConfig{
				BaseURL: server,
				Timeout: timeout,
			}), view, logger)

			return c.Submit(cmd.Context(), transcript)
		},
	}

	cmd.Flags().StringVar(&server, "server", defaultServer, "Base URL of the analysis service")
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Timeout for the analysis request")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log request details to stderr")
	return cmd
}

func readTranscript(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read transcript: %w", err)
	}
	return string(data), nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
