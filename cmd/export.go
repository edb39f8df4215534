package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ayyaapp/ayya/config"
	"github.com/ayyaapp/ayya/export"
	"github.com/ayyaapp/ayya/service"
	"github.com/ayyaapp/ayya/store/types"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/yaoapp/kun/exception"
)

var exportFormat string
var exportStart string
var exportEnd string
var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the admin collections to a file",
	Long:  "Export the admin collections to a JSON file or an xlsx workbook",
	Run: func(cmd *cobra.Command, args []string) {
		defer func() {
			err := exception.Catch(recover())
			if err != nil {
				fatal(err)
			}
		}()

		Boot()
		if err := runExport(context.Background(), config.Conf); err != nil {
			fatal(err)
		}
	},
}

// load builds the dependencies, replaced in tests
var load = service.Load

// runExport export with the flags, the dependencies are closed before it returns
func runExport(ctx context.Context, cfg config.Config) error {

	deps, err := load(ctx, cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	format := export.ParseFormat(exportFormat)
	output := exportOutput
	if output == "" {
		output = export.Filename(format, time.Now())
	}

	fmt.Printf("\r%s", color.GreenString("Export the collections ..."))
	size, err := exportTo(ctx, deps, format, export.ParseRange(exportStart, exportEnd, deps.Location), output)
	if err != nil {
		fmt.Println("")
		return err
	}
	fmt.Printf("\r%s\n", color.GreenString("Export the collections: ✨DONE✨"))
	fmt.Println(color.GreenString("File: %s (%d bytes)", output, size))
	return nil
}

// exportTo write the export to output, which must not exist yet
func exportTo(ctx context.Context, deps *service.Dependencies, format export.Format, rng types.Range, output string) (int, error) {

	output, err := filepath.Abs(output)
	if err != nil {
		return 0, err
	}

	if _, err := os.Stat(output); !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("%s exists", output)
	}

	bundle, _ := deps.Aggregator.Aggregate(ctx, rng)

	var data []byte
	switch format {
	case export.Excel:
		xls, err := deps.Builder.Build(ctx, bundle)
		if err != nil {
			return 0, err
		}
		defer xls.Close()
		data, err = xls.Bytes()
		if err != nil {
			return 0, err
		}
	default:
		data, err = bundle.MarshalJSON()
		if err != nil {
			return 0, err
		}
	}

	if err := os.MkdirAll(filepath.Dir(output), 0755); err != nil {
		return 0, err
	}
	if err := os.WriteFile(output, data, 0644); err != nil {
		return 0, err
	}
	return len(data), nil
}

func init() {
	exportCmd.PersistentFlags().StringVarP(&exportFormat, "format", "f", "json", "Output format json|excel|xlsx")
	exportCmd.PersistentFlags().StringVarP(&exportStart, "start", "s", "", "Earliest creation date, e.g. 2025-01-01")
	exportCmd.PersistentFlags().StringVarP(&exportEnd, "end", "", "", "Latest creation date, the whole day is included")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Output file, defaults to ayya-export-<time>.<ext>")
}
