package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"medicine-reminder/internal/adapters/druginfo/openfda"
	"medicine-reminder/internal/ports/druginfo"
)

var lookupBarcode bool

var lookupCmd = &cobra.Command{
	Use:   "lookup NAME|CODE",
	Short: "Consultar la ficha de un medicamento en openFDA",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := openfda.New(openfda.Config{
			BaseURL: cfg.DrugInfo.OpenFDAURL,
			Timeout: cfg.DrugInfo.Timeout,
			Logger:  log,
		})
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		var rec druginfo.InfoRecord
		if lookupBarcode {
			rec, err = client.ByBarcode(cmd.Context(), query)
		} else {
			rec, err = client.ByName(cmd.Context(), query)
		}
		if errors.Is(err, druginfo.ErrNotFound) {
			color.Yellow("Medicine not found in database")
			return nil
		}
		if err != nil {
			return err
		}

		printRecord(rec)
		return nil
	},
}

func printRecord(rec druginfo.InfoRecord) {
	title := color.New(color.FgGreen, color.Bold).SprintFunc()
	label := color.New(color.FgCyan).SprintFunc()

	fmt.Println(title(rec.Name))
	fmt.Printf("%s %s\n", label("Purpose:"), rec.Purpose)
	fmt.Printf("%s %s\n", label("Warnings:"), rec.Warnings)
	fmt.Printf("%s %s\n", label("Dosage:"), rec.DosageAndAdministration)
	fmt.Printf("%s %s\n", label("Active ingredients:"), strings.Join(rec.ActiveIngredients, ", "))
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupBarcode, "barcode", false, "buscar por código (NDC/EAN/UPC) en vez de por nombre")
}
