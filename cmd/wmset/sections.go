package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jchantrell/wmset/internal/export"
	"github.com/jchantrell/wmset/internal/utils"
	"github.com/jchantrell/wmset/internal/wmset"
	"github.com/spf13/cobra"
)

var (
	compressSections bool
	verifySections   bool
)

var sectionsCmd = &cobra.Command{
	Use:   "sections <file>",
	Short: "Dump the raw bytes of every section",
	Long: `Sections writes each of the 48 sections of a worldmap file to
section_NN.bin without decoding it. With --compress the dumps are zstd
compressed and named section_NN.bin.zst. With --verify every dump is read
back and compared with the container.

Files are written to --output, or to <file>_sections next to the input.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		c, err := wmset.ParseContainer(data)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}

		dir := cfg.Output
		if dir == "" {
			dir = strings.TrimSuffix(path, filepath.Ext(path)) + "_sections"
		}

		progress := utils.NewProgress(showProgress())
		bar := progress.AddBar(filepath.Base(path), wmset.SectionCount)
		n, err := export.DumpSections(c, dir, compressSections, bar.Update)
		bar.Done()
		progress.Finish()
		if err != nil {
			return fmt.Errorf("dumping sections: %w", err)
		}

		if verifySections {
			if err := export.VerifySections(c, dir, compressSections); err != nil {
				return fmt.Errorf("verifying sections: %w", err)
			}
			slog.Debug("Verified section dumps", "dir", dir)
		}

		slog.Info("Dumped sections", "path", path, "dir", dir, "count", n, "compressed", compressSections)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsCmd.Flags().BoolVar(&compressSections, "compress", false, "zstd-compress section dumps")
	sectionsCmd.Flags().BoolVar(&verifySections, "verify", false, "read every dump back and compare it with the container")
}
