package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cachemem "github.com/Gunvolt24/farm_orders/internal/cache/memory"
	"github.com/Gunvolt24/farm_orders/internal/catalog"
	"github.com/Gunvolt24/farm_orders/internal/catalog/xlsx"
	"github.com/Gunvolt24/farm_orders/internal/document"
	"github.com/Gunvolt24/farm_orders/internal/domain"
	"github.com/Gunvolt24/farm_orders/internal/usecase"
	"github.com/Gunvolt24/farm_orders/pkg/ctxmeta"
	"github.com/Gunvolt24/farm_orders/pkg/logger"
	"github.com/Gunvolt24/farm_orders/pkg/validate"
)

// CLI-приложение: бланк заказа (PDF) из каталога xlsx и запроса в JSON, без сервера.
func main() {
	catalogPath := flag.String("catalog", "products.xlsx", "path to the products workbook")
	inputPath := flag.String("in", "", "path to the order request JSON. If empty, reads from stdin.")
	outDir := flag.String("out", ".", "directory for the generated PDF")
	fontPath := flag.String("font", "", "TrueType font with full Unicode coverage (optional)")
	organization := flag.String("org", document.DefaultOrganization, "organization name in the header")
	timezone := flag.String("tz", "Europe/Paris", "timezone for the document date")
	flag.Parse()

	ctx := ctxmeta.WithSource(context.Background(), ctxmeta.SourceCLI)
	logg, cleanup, err := logger.NewZapLogger(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = cleanup() }()

	if err := run(ctx, logg, options{
		catalogPath:  *catalogPath,
		inputPath:    *inputPath,
		outDir:       *outDir,
		fontPath:     *fontPath,
		organization: *organization,
		timezone:     *timezone,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "order-sheet: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	catalogPath  string
	inputPath    string
	outDir       string
	fontPath     string
	organization string
	timezone     string
}

func run(ctx context.Context, logg *logger.ZapLogger, opts options) error {
	raw, err := readInput(opts.inputPath)
	if err != nil {
		return err
	}

	requestValidator := validate.NewRequestValidator()
	req, err := validate.RequestFromJSON(ctx, requestValidator, raw, true)
	if err != nil {
		return err
	}

	now := time.Now
	if loc, lErr := time.LoadLocation(opts.timezone); lErr == nil {
		now = func() time.Time { return time.Now().In(loc) }
	}

	images := catalog.ImageResolver{Root: filepath.Dir(opts.catalogPath)}
	memo := cachemem.NewCatalogMemo(xlsx.NewLoader(opts.catalogPath), images.Resolve, logg)
	generator := document.NewGenerator(document.Options{
		Organization: opts.organization,
		FontPath:     opts.fontPath,
		Compress:     true,
	}, now)
	svc := usecase.NewOrderService(memo, generator, nil, nil, requestValidator, logg, usecase.Options{Now: now})

	doc, err := svc.Document(ctx, *req)
	switch {
	case err == nil:
	case catalog.IsCatalogError(err):
		return fmt.Errorf("%s", catalog.UserMessage(err))
	case domain.IsEmptyOrder(err):
		return fmt.Errorf("aucun produit sélectionné")
	default:
		return err
	}

	for _, w := range doc.Preview.Warnings {
		logg.Warnf(ctx, "%s", w)
	}

	out := filepath.Join(opts.outDir, doc.FileName)
	if err := os.WriteFile(out, doc.Bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(os.Stdout, "%s (%d lignes, total %s)\n", out, doc.Preview.LineCount, doc.Preview.TotalLabel)
	return nil
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		path = "/dev/stdin"
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read request: %w", err)
	}
	return raw, nil
}
