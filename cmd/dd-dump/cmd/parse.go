// SPDX-FileCopyrightText: 2026 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package cmd

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/pion-community/dependencydescriptor/pkg/dependencydescriptor"
)

var parseArgs struct {
	hexPayload    string
	base64Payload string
}

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse a single Dependency Descriptor extension payload.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var buf []byte
		var err error
		switch {
		case parseArgs.hexPayload != "":
			buf, err = hex.DecodeString(parseArgs.hexPayload)
			if err != nil {
				return fmt.Errorf("decoding --hex: %w", err)
			}
		case parseArgs.base64Payload != "":
			buf, err = base64.StdEncoding.DecodeString(parseArgs.base64Payload)
			if err != nil {
				return fmt.Errorf("decoding --base64: %w", err)
			}
		default:
			return fmt.Errorf("one of --hex or --base64 is required")
		}

		parsed, err := dependencydescriptor.Parse(buf, nil, nil)
		if err != nil {
			log.Error().Err(err).Msg("failed to parse dependency descriptor")
			return err
		}

		logEvent := log.Info().
			Uint16("frame_number", parsed.FrameNumber).
			Uint8("spatial_id", parsed.SpatialId).
			Uint8("temporal_id", parsed.TemporalId).
			Bool("first_packet_of_frame", parsed.FirstPacketOfFrame).
			Bool("last_packet_of_frame", parsed.LastPacketOfFrame).
			Bool("carries_new_structure", parsed.UpdatedSharedStructure != nil)

		for i, dt := range parsed.DecodeTargets {
			logEvent = logEvent.
				Bool(fmt.Sprintf("decode_target[%d].active", i), dt.Active).
				Str(fmt.Sprintf("decode_target[%d].indication", i), dt.Indication.String())
		}
		logEvent.Msg("parsed dependency descriptor")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVar(&parseArgs.hexPayload, "hex", "", "hex-encoded Dependency Descriptor extension payload")
	parseCmd.Flags().StringVar(&parseArgs.base64Payload, "base64", "", "base64-encoded Dependency Descriptor extension payload")
}
