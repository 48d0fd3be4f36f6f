// Command analyze runs the extraction engine over a folder of invoice PDFs
// and writes the XLSX analysis workbook, without going through the server.
package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/bistro-urbain/invoice-analyzer/internal/export"
	"github.com/bistro-urbain/invoice-analyzer/internal/extraction"
	"github.com/bistro-urbain/invoice-analyzer/internal/pdfio"
)

func main() {
	dir := flag.String("dir", "factures", "folder containing the invoice PDFs")
	out := flag.String("out", "analyse_factures.xlsx", "output workbook path")
	workers := flag.Int("workers", 4, "number of files processed in parallel")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	paths, err := collectPDFs(*dir)
	if err != nil {
		log.Fatalf("scan %s: %v", *dir, err)
	}
	if len(paths) == 0 {
		log.Fatalf("no PDF files found under %s", *dir)
	}

	results := make([]extraction.Result, len(paths))
	var g errgroup.Group
	g.SetLimit(*workers)
	engine := extraction.NewEngine(extraction.WithLogger(logger))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			analysis := pdfio.Analyze(data)
			if analysis.Err != nil {
				logger.Warn("unreadable PDF, skipping", "file", path, "error", analysis.Err)
				return nil
			}
			results[i] = engine.Process(analysis.Document(filepath.Base(path)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	var summaries []extraction.InvoiceSummary
	var products []extraction.ProductRecord
	for _, r := range results {
		if r.Summary.SourceFile == "" {
			continue // skipped file
		}
		summaries = append(summaries, r.Summary)
		products = append(products, r.Products...)
		for _, w := range r.Warnings {
			logger.Warn(w, "file", r.Summary.SourceFile)
		}
	}

	data, err := export.WorkbookXLSX(summaries, products)
	if err != nil {
		log.Fatalf("build workbook: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}

	printSupplierTotals(summaries)
	fmt.Printf("\n%d factures, %d lignes produit -> %s\n", len(summaries), len(products), *out)
}

func collectPDFs(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".pdf") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

func printSupplierTotals(summaries []extraction.InvoiceSummary) {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, s := range summaries {
		totals[s.Supplier] += s.TotalHT
		counts[s.Supplier]++
	}

	suppliers := make([]string, 0, len(totals))
	for name := range totals {
		suppliers = append(suppliers, name)
	}
	sort.Slice(suppliers, func(i, j int) bool { return totals[suppliers[i]] > totals[suppliers[j]] })

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Fournisseur\tFactures\tTotal HT")
	for _, name := range suppliers {
		fmt.Fprintf(w, "%s\t%d\t%.2f\n", name, counts[name], totals[name])
	}
	w.Flush()
}
