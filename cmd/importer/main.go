package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"abr-geocoder/internal/config"
	"abr-geocoder/internal/logger"
	"abr-geocoder/internal/repository"

	"github.com/rs/zerolog/log"
)

const chunkSize = 5000

// sourceFiles are the file names tried for each table, in order.
var sourceFiles = map[string][]string{
	"city":         {"city.csv", "mt_city_all.csv"},
	"town":         {"town.csv", "mt_town_all.csv"},
	"rsdtdsp_blk":  {"rsdtdsp_blk.csv", "mt_rsdtdsp_blk_all.csv"},
	"rsdtdsp_rsdt": {"rsdtdsp_rsdt.csv", "mt_rsdtdsp_rsdt_all.csv"},
	"parcel":       {"parcel.csv", "mt_parcel_all.csv"},
}

// headerAliases maps registry header names onto schema column names.
var headerAliases = map[string]string{
	"machiaza_id": "town_id",
	"rep_pnt_lat": "rep_lat",
	"rep_pnt_lon": "rep_lon",
}

func main() {
	dir := flag.String("dir", "", "Directory holding the dataset CSV files")
	configDir := flag.String("config", "configs", "Directory holding app.env")
	flag.Parse()

	if *dir == "" {
		fmt.Println("Error: --dir flag is required")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := repository.Connect(ctx, cfg.DBDriver, cfg.DBSource)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer store.Close()

	if err := store.CreateSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("cannot create schema")
	}

	for _, table := range repository.Tables {
		path, ok := findSource(*dir, table.Name)
		if !ok {
			log.Warn().Str("table", table.Name).Msg("no source file, skipping")
			continue
		}
		n, err := importFile(ctx, store, table, path)
		if err != nil {
			log.Fatal().Err(err).Str("table", table.Name).Str("file", path).Msg("import failed")
		}
		log.Info().Str("table", table.Name).Int64("rows", n).Msg("imported")
	}
}

func findSource(dir, table string) (string, bool) {
	for _, name := range sourceFiles[table] {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func importFile(ctx context.Context, store repository.Store, table repository.Table, path string) (int64, error) {
	before, err := store.Count(ctx, table.Name)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var loaded int64
	err = parseCSV(file, table, func(records [][]any) error {
		n, err := store.Load(ctx, table.Name, table.Columns, records)
		loaded += n
		return err
	})
	if err != nil {
		return loaded, err
	}

	return loaded, verifyImport(ctx, store, table.Name, before+loaded)
}

// parseCSV reads a header-led CSV and hands records to flush in chunks, with
// values converted to the column types of table.
func parseCSV(r io.Reader, table repository.Table, flush func([][]any) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		index[h] = i
	}
	for _, col := range table.Columns {
		if _, ok := index[col]; !ok && required(col) {
			return fmt.Errorf("missing column %q", col)
		}
	}

	chunk := make([][]any, 0, chunkSize)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read record: %w", err)
		}

		row := make([]any, len(table.Columns))
		for i, col := range table.Columns {
			raw := ""
			if j, ok := index[col]; ok && j < len(record) {
				raw = strings.TrimSpace(record[j])
			}
			if row[i], err = convert(col, raw); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
		}
		chunk = append(chunk, row)

		if len(chunk) == chunkSize {
			if err := flush(chunk); err != nil {
				return err
			}
			chunk = make([][]any, 0, chunkSize)
		}
	}
	if len(chunk) > 0 {
		return flush(chunk)
	}
	return nil
}

func required(col string) bool {
	switch col {
	case "lg_code", "town_id", "blk_id", "rsdt_id", "prc_id", "pref_name":
		return true
	}
	return false
}

func convert(col, raw string) (any, error) {
	switch col {
	case "rep_lat", "rep_lon":
		if raw == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", col, raw)
		}
		return v, nil
	case "rsdt_addr_flg":
		if raw == "" {
			return 0, nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %s", col, raw)
		}
		return v, nil
	}
	return raw, nil
}

func verifyImport(ctx context.Context, store repository.Store, table string, expected int64) error {
	count, err := store.Count(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to count records: %w", err)
	}
	if count != expected {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expected, count)
	}
	return nil
}
