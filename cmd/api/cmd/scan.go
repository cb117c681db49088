package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medicine-reminder/internal/adapters/barcode/zxing"
	"medicine-reminder/internal/adapters/druginfo/openfda"
	"medicine-reminder/internal/domain/scan"
	"medicine-reminder/internal/ports/barcode"
	"medicine-reminder/internal/ports/druginfo"
)

var scanLookup bool

var scanCmd = &cobra.Command{
	Use:   "scan IMAGE...",
	Short: "Decodificar un código de barras desde imágenes (png/jpeg/gif)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := make([][]byte, 0, len(args))
		for _, path := range args {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			raw = append(raw, b)
		}

		scanner := scan.NewScanner(zxing.NewDecoder(), log)
		code, err := scanner.Scan(cmd.Context(), zxing.NewFrameCamera(raw...))
		if errors.Is(err, barcode.ErrNoSymbol) {
			color.Yellow(scan.MsgNoBarcode)
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", color.CyanString("Barcode:"), code)
		if !scanLookup {
			return nil
		}

		client, err := openfda.New(openfda.Config{
			BaseURL: cfg.DrugInfo.OpenFDAURL,
			Timeout: cfg.DrugInfo.Timeout,
			Logger:  log,
		})
		if err != nil {
			return err
		}
		rec, err := client.ByBarcode(cmd.Context(), code)
		if errors.Is(err, druginfo.ErrNotFound) {
			color.Yellow(scan.MsgProductNotFound)
			return nil
		}
		if err != nil {
			return err
		}
		printRecord(rec)
		return nil
	},
}

func init() {
	scanCmd.Flags().BoolVar(&scanLookup, "lookup", false, "buscar la ficha del código decodificado")
}
