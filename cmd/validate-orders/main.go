package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/farm_orders/pkg/validate"
)

// CLI-приложение для проверки запросов заказа (JSON / JSONL) до отправки в очередь.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	requireClient := flag.Bool("require-client", true, "client name is mandatory (document/e-mail requests)")
	flag.Parse()

	ctx := context.Background()
	requestValidator := validate.NewRequestValidator()

	format := validate.InputFormat(*formatStr)

	path := *inputPath
	// stdin вариант: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	summary, err := validate.ValidateFile(ctx, requestValidator, path, format, os.Stdout, *requireClient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
