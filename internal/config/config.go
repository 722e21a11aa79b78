package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/danielacalcdecampo/agrocota/internal/parser"
)

// FileName nome padrão do arquivo de configuração
const FileName = "config.toml"

// AppConfig configuração da aplicação
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Ingest IngestConfig `toml:"ingest"`
	Excel  ExcelConfig  `toml:"excel"`
	Rules  parser.Rules `toml:"rules"`
}

// ServerConfig servidor HTTP
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// LogConfig nível e formato dos logs
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// IngestConfig motor de ingestão + prévia
type IngestConfig struct {
	parser.Options

	SummaryPreviewLimit int  `toml:"summary_preview_limit"`
	FillMergedCells     bool `toml:"fill_merged_cells"`
}

// ExcelConfig upload de planilhas
type ExcelConfig struct {
	MaxUploadMB int64 `toml:"max_upload_mb"`
}

// LoadConfigInfo metadados do carregamento
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
	PortSpecified bool
}

// DefaultConfig configuração padrão
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Ingest: IngestConfig{
			Options:             parser.DefaultOptions(),
			SummaryPreviewLimit: 4,
			FillMergedCells:     false,
		},
		Excel: ExcelConfig{
			MaxUploadMB: 20,
		},
		Rules: parser.DefaultRules(),
	}
}

// NewEngine motor de ingestão a partir das regras e opções configuradas
func (c *AppConfig) NewEngine() (*parser.Engine, error) {
	e, err := parser.NewEngine(c.Rules, c.Ingest.Options)
	if err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return e, nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir diretório do executável
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultPath config.toml ao lado do executável
func DefaultPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return filepath.Join(exeDir, FileName)
}

// LoadConfigWithInfo carrega path (vazio = DefaultPath) sobre os valores padrão
// Arquivo ausente não é erro. Variáveis de ambiente têm a palavra final.
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	if path == "" {
		path = DefaultPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// sem arquivo: padrão
	default:
		return nil, info, err
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// applyEnv AGROCOTA_PORT / AGROCOTA_LOG_LEVEL
func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := os.Getenv("AGROCOTA_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("AGROCOTA_PORT: %w", err)
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := os.Getenv("AGROCOTA_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	return nil
}

// SaveConfig grava a configuração em path (arquivo temporário + rename)
func SaveConfig(path string, config *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// NewLogger logger slog conforme [log]
// format "json" usa JSONHandler; qualquer outro valor, TextHandler.
func (l LogConfig) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("log level %q: %w", l.Level, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(l.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler), nil
}
