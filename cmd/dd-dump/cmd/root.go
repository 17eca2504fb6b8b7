// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package cmd

import (
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dd-dump",
	Short: "Inspect AV1 Dependency Descriptor RTP header extensions.",
	Long:  `dd-dump parses AV1 Dependency Descriptor RTP header extension payloads and prints the resolved Decode Target state.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(logLevel, logJSON)
	},
	TraverseChildren: true,
	SilenceUsage:     true,
}

var (
	logLevel string
	logJSON  bool
)

// Execute registers the persistent logging flags and runs the root command
// (child commands add themselves in their init functions), returning the
// process exit code. It is called once by main.main.
func Execute() int {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "INFO", "set log level")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "set log to json format (default colorized console)")

	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

func initLogger(logLevel string, logJSON bool) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = "2006-01-02T15:04:05.999Z0700"

	var writer io.Writer
	if !logJSON {
		noColor := runtime.GOOS == "windows"
		writer = zerolog.ConsoleWriter{
			Out:     os.Stderr,
			NoColor: noColor,
		}
	} else {
		writer = os.Stderr
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()

	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "WARN":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "ERROR":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
