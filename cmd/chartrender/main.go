// Command chartrender renders charts to SVG files from a request JSON file
// or from a spreadsheet.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/warzone2100/chartsvg/chart"
)

var (
	inputPath  string
	outputPath string
	sheetName  string
	title      string
	valueLabel string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "chartrender",
		Short:        "Render line and stacked area charts to SVG",
		SilenceUsage: true,
	}

	renderCmd := &cobra.Command{
		Use:   "render <line|area>",
		Short: "Render a chart request JSON document",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "Request JSON file, - for stdin")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "SVG output file, - for stdout")

	xlsxCmd := &cobra.Command{
		Use:   "xlsx <line|area>",
		Short: "Render the series of a worksheet",
		Long: `The first row of the sheet is the header: the first column holds the
sample times and every other column is one series named by its header cell.`,
		Args: cobra.ExactArgs(1),
		RunE: runXLSX,
	}
	xlsxCmd.Flags().StringVarP(&inputPath, "file", "f", "", "Workbook path")
	xlsxCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: first sheet)")
	xlsxCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "SVG output file, - for stdout")
	xlsxCmd.Flags().StringVar(&title, "title", "", "Chart title")
	xlsxCmd.Flags().StringVar(&valueLabel, "ylabel", "", "Value axis label")
	xlsxCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(renderCmd, xlsxCmd)
	return rootCmd
}

func runRender(cmd *cobra.Command, args []string) error {
	kind, err := chart.ParseKind(args[0])
	if err != nil {
		return err
	}
	var in io.Reader = cmd.InOrStdin()
	if inputPath != "-" {
		f, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	var req chart.Request
	dec := json.NewDecoder(in)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return fmt.Errorf("decoding request: %w", err)
	}
	return renderTo(cmd, kind, req)
}

func runXLSX(cmd *cobra.Command, args []string) error {
	kind, err := chart.ParseKind(args[0])
	if err != nil {
		return err
	}
	req, err := requestFromWorkbook(inputPath, sheetName)
	if err != nil {
		return err
	}
	req.Title = title
	if req.YAxis != nil {
		req.YAxis.Label = valueLabel
	}
	return renderTo(cmd, kind, req)
}

func renderTo(cmd *cobra.Command, kind chart.Kind, req chart.Request) error {
	res, err := chart.Render(kind, req)
	if err != nil {
		if code := chart.ErrorCode(err); code != "" {
			return fmt.Errorf("%s: %w", code, err)
		}
		return err
	}
	if outputPath == "-" {
		_, err = io.WriteString(cmd.OutOrStdout(), res.SVG)
		return err
	}
	if err := os.WriteFile(outputPath, []byte(res.SVG), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %dx%d chart to %s\n", res.Width, res.Height, outputPath)
	return nil
}
