package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jchantrell/wmset/internal/cache"
	"github.com/jchantrell/wmset/internal/database"
	"github.com/jchantrell/wmset/internal/export"
	"github.com/jchantrell/wmset/internal/utils"
	"github.com/jchantrell/wmset/internal/wmset"
	"github.com/spf13/cobra"
)

type ExtractionStats struct {
	StartTime      time.Time
	EndTime        time.Time
	TotalFiles     int
	ProcessedFiles int
	CachedFiles    int
	Models         int
	Textures       int
	FilesWritten   int
	Diagnostics    int
	DecodeErrors   int
	DatabaseErrors int
}

var (
	forceExtract bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>...",
	Short: "Decode worldmap files and export their contents",
	Long: `Extract decodes one or more worldmap set files and writes every model,
texture and text table in the configured formats.

Without --output, each file is exported into the cache directory under its
content hash and skipped when that export already finished. Use --force to
export again. With --database, decoded entities are also stored in SQLite.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		stats := &ExtractionStats{
			StartTime:  time.Now(),
			TotalFiles: len(args),
		}

		layout, err := cfg.Layout()
		if err != nil {
			return fmt.Errorf("building section layout: %w", err)
		}
		text, err := cfg.TextDecoder()
		if err != nil {
			return fmt.Errorf("loading text tables: %w", err)
		}

		slog.Info("Starting extract...", "files", len(args), "formats", cfg.Formats)

		cacheManager := cache.CacheManager()
		if cfg.Output == "" {
			slog.Debug("Exporting into cache", "dir", cacheManager.GetCacheDir())
		}

		var bulkInserter *database.BulkInserter
		if cfg.Database != "" {
			db, err := database.NewDatabase(database.DefaultDatabaseOptions(cfg.Database))
			if err != nil {
				return fmt.Errorf("creating database: %w", err)
			}
			defer db.Close()
			slog.Debug("Opened database", "path", db.Path())

			if err := database.NewDDLManager(db).CreateSchema(ctx, nil); err != nil {
				return fmt.Errorf("creating schema: %w", err)
			}
			opts := database.DefaultBulkInsertOptions()
			opts.Progress = func(table string, inserted, total int) {
				slog.Debug("Inserted rows", "table", table, "rows", inserted, "total", total)
			}
			bulkInserter = database.NewBulkInserter(db, opts)
		}

		progress := utils.NewProgress(showProgress())
		defer progress.Finish()

		for _, path := range args {
			if err := ctx.Err(); err != nil {
				slog.Warn("Extraction canceled")
				return fmt.Errorf("extraction canceled: %w", err)
			}

			hash, err := cache.HashFile(path)
			if err != nil {
				return fmt.Errorf("hashing %s: %w", path, err)
			}

			outDir := outputDirFor(cacheManager, path, hash, len(args))
			useCache := cfg.Output == ""
			skipExport := useCache && !forceExtract && cacheManager.IsComplete(hash)
			if skipExport {
				slog.Info("Using cached export", "path", path, "dir", outDir)
				stats.CachedFiles++
				if bulkInserter == nil {
					stats.ProcessedFiles++
					continue
				}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			w, err := wmset.Decode(ctx, data, wmset.Options{Layout: layout, Workers: cfg.Workers, Text: text})
			if err != nil {
				if ctx.Err() != nil {
					slog.Warn("Extraction canceled", "path", path)
					return fmt.Errorf("extraction canceled: %w", ctx.Err())
				}
				slog.Error("Failed to decode worldmap", "path", path, "size_bytes", len(data), "error", err)
				stats.DecodeErrors++
				continue
			}
			stats.Diagnostics += len(w.Diagnostics)

			if !skipExport {
				if useCache && forceExtract {
					if err := cacheManager.Invalidate(hash); err != nil {
						return err
					}
				}

				exporter := export.NewExporter(outDir, export.Options{
					Formats:      cfg.Formats,
					VertexScale:  cfg.VertexScale,
					TextureScale: cfg.TextureScale,
					Layout:       layout,
					Source:       filepath.Base(path),
				})

				bar := progress.AddBar(filepath.Base(path), exporter.Total(w))
				exportStats, err := exporter.Export(w, bar.Update)
				bar.Done()
				if err != nil {
					return fmt.Errorf("exporting %s: %w", path, err)
				}

				stats.Models += exportStats.Models
				stats.Textures += exportStats.Textures
				stats.FilesWritten += exportStats.Files

				if useCache {
					if err := cacheManager.MarkComplete(hash); err != nil {
						return err
					}
				}
			}

			if bulkInserter != nil {
				info := database.FileInfo{Path: path, Hash: hash, Size: len(data)}
				if _, err := bulkInserter.InsertWorldmap(ctx, info, w, layout); err != nil {
					if ctx.Err() != nil {
						slog.Warn("Extraction canceled", "path", path)
						return fmt.Errorf("extraction canceled: %w", ctx.Err())
					}
					slog.Error("Database insert failed", "path", path, "error", err)
					stats.DatabaseErrors++
					continue
				}
			}

			slog.Info("Extracted worldmap",
				"path", path,
				"dir", outDir,
				"models", len(w.Models),
				"textures", len(w.Textures),
				"diagnostics", len(w.Diagnostics))
			stats.ProcessedFiles++
		}

		progress.Finish()
		stats.EndTime = time.Now()

		printExtractionStats(stats)
		if cfg.Database != "" {
			fmt.Println("Try running: wmset query --tables")
		}

		if stats.DecodeErrors > 0 {
			return fmt.Errorf("%d of %d files failed to decode", stats.DecodeErrors, stats.TotalFiles)
		}
		return nil
	},
}

// outputDirFor picks the export directory for one input file. Multiple inputs
// sharing --output get one subdirectory per file name.
func outputDirFor(c *cache.Cache, path, hash string, inputs int) string {
	if cfg.Output == "" {
		return c.GetEntryDir(hash)
	}
	if inputs == 1 {
		return cfg.Output
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(cfg.Output, stem)
}

func printExtractionStats(stats *ExtractionStats) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	totalMemoryMB := float64(memStats.Alloc) / 1024.0 / 1024.0

	fmt.Printf("Files processed: %d/%d (%d cached)\n", stats.ProcessedFiles, stats.TotalFiles, stats.CachedFiles)
	fmt.Printf("Models exported: %s\n", utils.Number(int64(stats.Models)))
	fmt.Printf("Textures exported: %s\n", utils.Number(int64(stats.Textures)))
	fmt.Printf("Files written: %s\n", utils.Number(int64(stats.FilesWritten)))
	fmt.Printf("Diagnostics: %d\n", stats.Diagnostics)
	fmt.Printf("Decode errors: %d\n", stats.DecodeErrors)
	fmt.Printf("Database errors: %d\n", stats.DatabaseErrors)
	fmt.Printf("Total duration: %s\n", utils.Duration(stats.EndTime.Sub(stats.StartTime)))
	fmt.Printf("Memory usage: %.2fmb\n", totalMemoryMB)
}

// loadWorldmap reads and decodes one file with the configured layout
func loadWorldmap(ctx context.Context, path string) ([]byte, *wmset.Worldmap, *wmset.Layout, error) {
	layout, err := cfg.Layout()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building section layout: %w", err)
	}

	text, err := cfg.TextDecoder()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading text tables: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	w, err := wmset.Decode(ctx, data, wmset.Options{Layout: layout, Workers: cfg.Workers, Text: text})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return data, w, layout, nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().BoolVar(&forceExtract, "force", false, "Export again even if a cached export exists")
}
