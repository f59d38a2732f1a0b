package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aomi-research/edinet-cli/internal/extract"
	"github.com/aomi-research/edinet-cli/internal/model"
	"github.com/aomi-research/edinet-cli/internal/resolve"
	"github.com/aomi-research/edinet-cli/internal/xbrl"
)

var extractCmd = &cobra.Command{
	Use:   "extract <company-name>",
	Short: "Extract normalized financial indicators from a disclosure",
	Long:  "Searches for the company's most recent filing (or uses --doc-id directly), downloads and decodes its XBRL facts, classifies the issuer type, and resolves the logical financial fields.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		docID, _ := cmd.Flags().GetString("doc-id")
		category, _ := cmd.Flags().GetString("category")
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("out")
		terms, _ := cmd.Flags().GetStringSlice("grep")

		company := ""
		if len(args) > 0 {
			company = args[0]
		}
		if docID == "" && company == "" {
			return eris.New("either a company name or --doc-id is required")
		}

		client, err := initClient()
		if err != nil {
			return err
		}

		if docID == "" {
			match, err := initSearch(client).Find(ctx, company, category)
			if err != nil {
				return err
			}
			docID = match.Document.DocID
			fmt.Fprintf(os.Stderr, "using %s (%s, %s)\n",
				docID, match.Document.FilerName, match.Date.Format("2006-01-02"))
		}

		if err := os.MkdirAll(cfg.Edinet.TempDir, 0o755); err != nil {
			return eris.Wrap(err, "create temp dir")
		}
		archivePath := filepath.Join(cfg.Edinet.TempDir, docID+"_xbrl.zip")
		if _, err := client.DownloadXBRL(ctx, docID, archivePath); err != nil {
			return err
		}

		table, err := xbrl.DecodeArchive(archivePath)
		if err != nil {
			return err
		}

		// Keyword exploration mode: list matching raw facts and exit.
		if len(terms) > 0 {
			for _, f := range extract.SearchByTerms(table, terms) {
				fmt.Printf("%s\t%s\t%s\t%s\n", f.Identifier, f.Name, f.Context, f.Value)
			}
			return nil
		}

		reg, err := initRegistry()
		if err != nil {
			return err
		}
		extractor := extract.New(reg, resolve.New(cfg.Resolver.Workers))

		result, err := extractor.Extract(ctx, table)
		if err != nil {
			return err
		}

		if err := saveRun(ctx, company, docID, result); err != nil {
			// Persistence failure should not discard a computed result.
			zap.L().Warn("extract: failed to save run", zap.Error(err))
		}

		return writeResult(result, format, outPath)
	},
}

func saveRun(ctx context.Context, company, docID string, result *model.NormalizedResult) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck
	if err := st.Migrate(ctx); err != nil {
		return err
	}
	return st.SaveRun(ctx, &model.ExtractionRun{
		Company: company,
		DocID:   docID,
		Status:  model.RunStatusComplete,
		Result:  result,
	})
}

func writeResult(result *model.NormalizedResult, format, outPath string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	case "csv":
		if outPath == "" {
			return extract.WriteCSV(os.Stdout, result)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return eris.Wrap(err, "create output file")
		}
		defer f.Close() //nolint:errcheck
		return extract.WriteCSV(f, result)
	case "xlsx":
		if outPath == "" {
			outPath = filepath.Join(cfg.Export.Dir, "normalized.xlsx")
		}
		return extract.WriteXLSX(outPath, result)
	case "table", "":
		printResultTable(result)
		return nil
	default:
		return eris.Errorf("unsupported format: %s", format)
	}
}

func printResultTable(result *model.NormalizedResult) {
	fmt.Printf("issuer type: %s\n\n", result.IssuerType)
	for _, name := range result.FieldOrder {
		fr := result.Fields[name]
		if fr.Absent {
			fmt.Printf("%-24s %-16s absent (%s)\n", name, fr.DisplayName, fr.Reason)
			continue
		}
		fmt.Printf("%-24s %-16s %s  [%s %s %s]\n",
			name, fr.DisplayName, fr.Value,
			fr.SourceIdentifier, fr.SourceContext, fr.SourceMember)
	}
}

func init() {
	extractCmd.Flags().String("doc-id", "", "extract a specific EDINET document ID, skipping search")
	extractCmd.Flags().String("category", "", "document category when searching")
	extractCmd.Flags().String("format", "table", "output format: table, json, csv, xlsx")
	extractCmd.Flags().String("out", "", "output file path for csv/xlsx")
	extractCmd.Flags().StringSlice("grep", nil, "list raw facts matching these keywords instead of extracting")
	rootCmd.AddCommand(extractCmd)
}
