// go_transcript — YouTube Transcript MCP server.
//
// Fetches YouTube transcripts through caption tracks, the transcript panel,
// or subtitle files, normalizes them into timed cues, and exports to
// txt/json/srt/vtt/csv/docx/pdf. Playlist and channel batch runs, Bright Data
// remote transcription for caption-less videos, and a local save history.
// Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	stealth "github.com/anatolykoptev/go-stealth"
	"github.com/anatolykoptev/go-stealth/proxypool"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_transcript/internal/engine"
	"github.com/anatolykoptev/go_transcript/internal/transcriptserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initEngine()

	slog.Info("starting go_transcript",
		slog.String("port", mcpPort),
		slog.String("output_dir", engine.Cfg.OutputDir),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_transcript",
		Version: version,
	}, nil)

	transcriptserver.RegisterTools(server)
	slog.Info("tools registered", slog.Int("count", 7))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_transcript",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		OutputDir:            env.Str("OUTPUT_DIR", filepath.Join(os.TempDir(), "transcript_outputs")),
		WorkDir:              env.Str("WORK_DIR", ""),
		PreferLangs:          env.List("PREFER_LANGS", "en"),
		BrightDataToken:      env.Str("BRIGHTDATA_API_TOKEN", ""),
		BrightDataDatasetID:  env.Str("BRIGHTDATA_DATASET_ID", "gd_lk56epmy2i5g7lzu0k"),
		BrightDataPollEvery:  env.Duration("BRIGHTDATA_POLL_INTERVAL", 30*time.Second),
		BrightDataMaxWait:    env.Duration("BRIGHTDATA_MAX_WAIT", 30*time.Minute),
		FetchTimeout:         env.Duration("FETCH_TIMEOUT", 30*time.Second),
		CacheMaxEntries:      env.Int("CACHE_MAX_ENTRIES", 1000),
		CacheCleanupInterval: env.Duration("CACHE_CLEANUP_INTERVAL", 300*time.Second),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	var opts []stealth.ClientOption
	opts = append(opts, stealth.WithTimeout(15))

	if apiKey := env.Str("WEBSHARE_API_KEY", ""); apiKey != "" {
		pool, err := proxypool.NewWebshare(apiKey)
		if err != nil {
			slog.Warn("proxy pool init failed, running without proxy", slog.Any("error", err))
		} else {
			opts = append(opts, stealth.WithProxyPool(pool))
			slog.Info("proxy pool initialized", slog.Int("proxies", pool.Len()))
		}
	}

	bc, err := stealth.NewClient(opts...)
	if err != nil {
		slog.Error("stealth client init failed", slog.Any("error", err))
	} else {
		c.BrowserClient = bc
		slog.Info("stealth browser client initialized")
	}

	engine.Init(c)

	if c.BrightDataToken == "" {
		slog.Info("remote transcription disabled (no BRIGHTDATA_API_TOKEN)")
	}

	cacheTTL := env.Duration("CACHE_TTL", 15*time.Minute)
	engine.InitCache(env.Str("REDIS_URL", ""), cacheTTL, c.CacheMaxEntries, c.CacheCleanupInterval)
}
