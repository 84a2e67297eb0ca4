package main

import (
	"fmt"

	"github.com/jchantrell/wmset/internal/cache"
	"github.com/jchantrell/wmset/internal/utils"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Print the section table, entity counts and diagnostics of a worldmap file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, w, layout, err := loadWorldmap(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File: %s\n", args[0])
		fmt.Printf("Size: %s\n", utils.Bytes(int64(len(data))))
		fmt.Printf("Hash: %s\n", cache.Hash(data))
		fmt.Println()

		fmt.Printf("%-8s %-12s %-12s %s\n", "Section", "Offset", "Size", "Kind")
		for i, r := range w.Container.Ranges {
			fmt.Printf("%-8d %-12s %-12s %s\n", i, utils.Hex(w.Container.Offsets[i]), utils.Number(int64(r.Len())), layout.Kind(i))
		}
		fmt.Println()

		opcodes, entities := 0, 0
		for _, sec := range w.Scripts {
			entities += len(sec.Entities)
			for _, e := range sec.Entities {
				opcodes += e.Len()
			}
		}

		fmt.Printf("Models: %d\n", len(w.Models))
		fmt.Printf("Textures: %d\n", len(w.Textures))
		fmt.Printf("Dialogs: %d\n", len(w.Dialogs))
		fmt.Printf("Location names: %d\n", len(w.LocationNames))
		fmt.Printf("Draw points: %d\n", len(w.DrawPoints))
		fmt.Printf("Script entities: %d (%s opcodes)\n", entities, utils.Number(int64(opcodes)))

		if len(w.Diagnostics) > 0 {
			fmt.Println()
			fmt.Printf("Diagnostics: %d\n", len(w.Diagnostics))
			for _, d := range w.Diagnostics {
				fmt.Printf("  %s\n", d)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
