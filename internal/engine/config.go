package engine

import (
	"net/http"
	"time"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	OutputDir            string   // where saved transcript files land
	WorkDir              string   // scratch dir: subtitle downloads, history DB
	PreferLangs          []string // caption language preference order
	BrightDataToken      string   // empty = remote transcription disabled
	BrightDataDatasetID  string
	BrightDataPollEvery  time.Duration // snapshot poll interval
	BrightDataMaxWait    time.Duration // total snapshot wait budget
	FetchTimeout         time.Duration
	CacheMaxEntries      int
	CacheCleanupInterval time.Duration
	HTTPClient           *http.Client
	BrowserClient        *BrowserClient // nil = watch-page fetches fall back to HTTPClient
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (sources, server).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	cfg = c
	Cfg = &cfg
}
