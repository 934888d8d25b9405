package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"abr-geocoder/internal/repository"
	"abr-geocoder/internal/service"

	"github.com/spf13/cobra"
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <lat> <lon>",
	Short: "Print the town nearest to a point",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}

		store, err := repository.Connect(cmd.Context(), cfg.DBDriver, cfg.DBSource)
		if err != nil {
			return err
		}
		defer store.Close()

		q, err := service.NewReverseGeoCodeService(store).ReverseGeocode(cmd.Context(), lat, lon)
		if err != nil {
			return err
		}
		if q == nil {
			return errors.New("no town found near the given point")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
}
