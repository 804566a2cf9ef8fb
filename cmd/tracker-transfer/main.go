// Command tracker-transfer exports, imports or resets the tracker data set
// against the configured database.
//
//	tracker-transfer export [-o file|-]
//	tracker-transfer import -f file
//	tracker-transfer reset
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contribution-tracker-go/internal/app"
	"contribution-tracker-go/internal/config"
	"contribution-tracker-go/internal/domain/transfer"
	"contribution-tracker-go/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	log := logger.NewFromEnv()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log, os.Args[1], os.Args[2:]); err != nil {
		log.Critical("transfer: command failed", "command", os.Args[1], "err", err)
		stop()
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tracker-transfer <export [-o file] | import -f file | reset>")
}

func run(ctx context.Context, log logger.Logger, command string, args []string) error {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	output := fs.String("o", "", `export file (default contribution-tracker-export-<date>.json, "-" for stdout)`)
	input := fs.String("f", "", "document to import")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch command {
	case "export", "import", "reset":
	default:
		usage(os.Stderr)
		return fmt.Errorf("unknown command %q", command)
	}
	if command == "import" && *input == "" {
		return fmt.Errorf("import needs -f file")
	}

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}
	services, err := app.NewServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer services.Close()

	switch command {
	case "export":
		return export(ctx, services.Transfer, *output)
	case "import":
		return importFile(ctx, services.Transfer, *input)
	default:
		return services.Transfer.Reset(ctx)
	}
}

func export(ctx context.Context, svc *transfer.Service, path string) error {
	doc, err := svc.Export(ctx)
	if err != nil {
		return err
	}
	switch path {
	case "-":
		return transfer.EncodeDocument(os.Stdout, doc)
	case "":
		path = transfer.FileName(time.Now())
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := transfer.EncodeDocument(file, doc); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

func importFile(ctx context.Context, svc *transfer.Service, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	doc, err := svc.Decode(file)
	if err != nil {
		return err
	}
	return svc.Import(ctx, doc)
}
