package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/danielacalcdecampo/agrocota/internal/config"
	"github.com/danielacalcdecampo/agrocota/internal/importer"
	"github.com/danielacalcdecampo/agrocota/internal/model"
	"github.com/danielacalcdecampo/agrocota/internal/server"
	"github.com/danielacalcdecampo/agrocota/internal/service/excel"
	"github.com/danielacalcdecampo/agrocota/internal/service/quotation"
	"github.com/danielacalcdecampo/agrocota/internal/service/report"
	"github.com/danielacalcdecampo/agrocota/internal/service/store"
	"github.com/danielacalcdecampo/agrocota/internal/util"
)

var (
	configPath = flag.String("config", "", "arquivo de configuração (padrão: config.toml ao lado do executável)")
	file       = flag.String("file", "", "processa a planilha e imprime o resultado em vez de subir o servidor")
	asJSON     = flag.Bool("json", false, "com -file, imprime o resultado em JSON")
	exportPath = flag.String("export", "", "com -file, grava o comparativo de preços neste .xlsx")
	port       = flag.Int("port", 0, "porta do servidor (config.toml tem prioridade)")
	devMode    = flag.Bool("dev", false, "modo de desenvolvimento")
	open       = flag.Bool("open", false, "abre o navegador ao iniciar o servidor")
	writeCfg   = flag.String("write-config", "", "grava a configuração efetiva neste arquivo e sai")
)

func main() {
	flag.Parse()

	cfg, info, err := config.LoadConfigWithInfo(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *writeCfg != "" {
		if err := config.SaveConfig(*writeCfg, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "falha ao gravar configuração: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Configuração gravada em %s\n", *writeCfg)
		return
	}

	logger, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuração de log inválida: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	logger.Debug("config loaded", "path", info.Path, "found", info.FileFound)

	if *file != "" {
		if err := runFile(cfg, logger, *file); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := serve(cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// runFile modo linha de comando: uma planilha, saída no terminal
func runFile(cfg *config.AppConfig, logger *slog.Logger, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	engine, err := cfg.NewEngine()
	if err != nil {
		return err
	}

	st := store.NewMemoryStore()
	coordinator := importer.NewCoordinator(
		excel.NewReader(excel.ReaderOptions{FillMergedCells: cfg.Ingest.FillMergedCells}),
		engine,
		quotation.NewBuilder(),
		st,
		importer.Options{PreviewLimit: cfg.Ingest.SummaryPreviewLimit, Logger: logger},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name := filepath.Base(path)
	preview, err := coordinator.Preview(ctx, name, data)
	if *asJSON && preview != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(preview.Result); encErr != nil {
			return encErr
		}
		return err
	}
	if err != nil {
		if preview != nil {
			printSheets(os.Stdout, preview.Result.Sheets)
		}
		return err
	}

	printPreview(os.Stdout, preview)

	if *exportPath != "" {
		q, err := quotation.NewBuilder().Build(quotation.Request{Title: name, SourceFile: name}, preview.Result)
		if err != nil {
			return err
		}
		if err := exportComparison(*exportPath, q); err != nil {
			return err
		}
		fmt.Printf("\nComparativo gravado em %s\n", *exportPath)
	}
	return nil
}

// exportComparison grava o comparativo; erro no Close também conta
func exportComparison(path string, q *model.Quotation) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := excel.NewExporter().WriteComparison(f, report.Build(q, report.NewPalette())); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

func serve(cfg *config.AppConfig, logger *slog.Logger) error {
	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(addr)
	}()

	if *open && !cfg.Server.DevMode {
		if err := util.OpenBrowserWithFallback(url); err != nil {
			logger.Warn("could not open browser", "url", url, "err", err)
		}
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
		logger.Info("shutting down")
		return nil
	}
}
