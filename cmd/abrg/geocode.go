package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"abr-geocoder/internal/models"
	"abr-geocoder/internal/repository"
	"abr-geocoder/internal/service"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	fuzzy     string
	workers   int
	batchSize int
)

var geocodeCmd = &cobra.Command{
	Use:   "geocode [file]",
	Short: "Geocode address lines from a file or stdin, one JSON object per line",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGeocode,
}

func init() {
	geocodeCmd.Flags().StringVar(&fuzzy, "fuzzy", "", "Wildcard character standing for any one character")
	geocodeCmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent records (default from WORKERS)")
	geocodeCmd.Flags().IntVar(&batchSize, "batch", 500, "Lines resolved per batch")
	rootCmd.AddCommand(geocodeCmd)
}

func runGeocode(cmd *cobra.Command, args []string) error {
	in := cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	opts := []service.Option{service.WithWorkers(cfg.Workers)}
	if workers > 0 {
		opts = append(opts, service.WithWorkers(workers))
	}
	if fuzzy != "" {
		if utf8.RuneCountInString(fuzzy) != 1 {
			return fmt.Errorf("--fuzzy must be a single character")
		}
		r, _ := utf8.DecodeRuneInString(fuzzy)
		opts = append(opts, service.WithFuzzy(r))
	} else if r, ok := cfg.Fuzzy(); ok {
		opts = append(opts, service.WithFuzzy(r))
	}

	ctx := cmd.Context()
	store, err := repository.Connect(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := geocodeStream(ctx, service.NewGeoCodeService(store, opts...), in, cmd.OutOrStdout(), batchSize)
	log.Info().Int("records", n).Msg("geocoded")
	return err
}

type batchGeocoder interface {
	GeocodeBatch(ctx context.Context, addresses []string) ([]models.Query, error)
}

// geocodeStream reads address lines from r and writes one Query JSON per line
// to w, in input order. Blank lines and lines starting with # are skipped.
func geocodeStream(ctx context.Context, g batchGeocoder, r io.Reader, w io.Writer, size int) (int, error) {
	if size < 1 {
		size = 1
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	written := 0
	lines := make([]string, 0, size)
	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		results, err := g.GeocodeBatch(ctx, lines)
		if err != nil {
			return err
		}
		for _, q := range results {
			if err := enc.Encode(q); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			written++
		}
		lines = lines[:0]
		return nil
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
		if len(lines) == size {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return written, fmt.Errorf("reading input: %w", err)
	}
	return written, flush()
}
