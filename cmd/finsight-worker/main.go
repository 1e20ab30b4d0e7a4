package main

import (
	"context"
	"os"

	"finsight/internal/amqp"
	"finsight/internal/cli"
	"finsight/internal/config"
	"finsight/internal/log"
	"finsight/internal/sheets"
	gsheet "finsight/internal/sheets/google"
	memsheet "finsight/internal/sheets/memory"
	"finsight/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig((*config.Config).ValidateMirror)
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	if err := run(cfg, logger); err != nil {
		logger.Error("finsight-worker stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *log.Logger) error {
	ctx, stop := cli.SignalContext()
	defer stop()

	logger.Info("Starting finsight-worker", log.FieldOperation, log.OpStartup, "queue", cfg.AMQPQueue)

	mirror, err := newMirror(ctx, cfg, logger)
	if err != nil {
		return err
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	err = worker.NewMirrorWorker(mirror, logger).Run(ctx, client)
	logger.Info("finsight-worker stopped", log.FieldOperation, log.OpShutdown)
	return err
}

// newMirror uses Google Sheets when a spreadsheet is configured and an
// in-memory mirror otherwise, which is handy for local runs.
func newMirror(ctx context.Context, cfg *config.Config, logger *log.Logger) (sheets.Mirror, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, mirroring to memory only")
		return memsheet.New(), nil
	}
	client, err := gsheet.New(ctx, gsheet.Credentials{
		JSON: cfg.GoogleServiceAccountJSON,
		File: cfg.GoogleServiceAccountFile,
	}, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		return nil, err
	}
	logger.WithComponent(log.ComponentSheets).Info("Mirroring to Google Sheets",
		"spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	return client, nil
}
