package types

import "time"

// FetchStrategy selects which source a fetcher tries first.
type FetchStrategy string

const (
	// APIFirst queries the service API first and falls back to the
	// headless-browser scraper only when browser.enabled is set.
	APIFirst FetchStrategy = "api-first"

	// BrowserFirst scrapes first and falls back to the API only when
	// the matching flex_mode flag permits it.
	BrowserFirst FetchStrategy = "browser-first"
)

// ProviderSettings describes one chat-completion endpoint.
type ProviderSettings struct {
	// Provider is the payload dialect: "anthropic" selects the Messages
	// API shape; anything else is treated as OpenAI-compatible.
	Provider string `mapstructure:"provider" yaml:"provider"`

	// BaseURL is the API base (e.g. "https://api.openai.com/v1").
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// Model is the model identifier sent with each request.
	Model string `mapstructure:"model" yaml:"model"`

	// Timeout is the per-request HTTP timeout in seconds.
	Timeout int `mapstructure:"timeout" yaml:"timeout"`
}

// APISettings groups the text-generation and vision endpoints plus the
// resolved API key.
type APISettings struct {
	Text ProviderSettings `mapstructure:"text" yaml:"text"`
	VL   ProviderSettings `mapstructure:"vl" yaml:"vl"`

	// APIKey is filled at load time from the {PROVIDER}_API_KEY
	// environment variable or a .secrets/ file; it is never read from
	// the YAML file itself.
	APIKey string `mapstructure:"-" yaml:"-"`
}

// BrowserSettings configures the headless-browser fallback.
type BrowserSettings struct {
	Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
	Headless     bool   `mapstructure:"headless" yaml:"headless"`
	Timeout      int    `mapstructure:"timeout" yaml:"timeout"` // milliseconds
	UserAgent    string `mapstructure:"user_agent" yaml:"user_agent"`
	CacheEnabled bool   `mapstructure:"cache_enabled" yaml:"cache_enabled"`
	CacheTTL     int    `mapstructure:"cache_ttl" yaml:"cache_ttl"` // seconds
	CacheDir     string `mapstructure:"cache_dir" yaml:"cache_dir"`
	Proxy        string `mapstructure:"proxy" yaml:"proxy"`
}

// FlexModeSettings gates fallback from browser scraping to direct API
// calls per service. When Enabled is false no browser-first fetcher may
// fall back to an API.
type FlexModeSettings struct {
	Enabled       bool `mapstructure:"enabled" yaml:"enabled"`
	ArxivAPI      bool `mapstructure:"arxiv_api" yaml:"arxiv_api"`
	PapersCoolAPI bool `mapstructure:"papers_cool_api" yaml:"papers_cool_api"`
}

// ArxivSettings configures the arXiv metadata and PDF endpoints.
type ArxivSettings struct {
	APIURL    string        `mapstructure:"api_url" yaml:"api_url"`
	PDFURL    string        `mapstructure:"pdf_url" yaml:"pdf_url"` // templated: {id}
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	Strategy  FetchStrategy `mapstructure:"strategy" yaml:"strategy"`
}

// PapersCoolSettings configures the Kimi summary service.
type PapersCoolSettings struct {
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url"`
	KimiEndpoint string        `mapstructure:"kimi_endpoint" yaml:"kimi_endpoint"`
	Timeout      int           `mapstructure:"timeout" yaml:"timeout"` // seconds
	Strategy     FetchStrategy `mapstructure:"strategy" yaml:"strategy"`
}

// PathsSettings lists the working directories.
type PathsSettings struct {
	CacheDir     string `mapstructure:"cache_dir" yaml:"cache_dir"`
	PDFDir       string `mapstructure:"pdf_dir" yaml:"pdf_dir"`
	SummariesDir string `mapstructure:"summaries_dir" yaml:"summaries_dir"`
	CommentsDir  string `mapstructure:"comments_dir" yaml:"comments_dir"`
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`
	SlidesDir    string `mapstructure:"slides_dir" yaml:"slides_dir"`
}

// PDFSettings bounds PDF text extraction.
type PDFSettings struct {
	// MaxPages limits the pages read; 0 means unbounded.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// MaxChars is the character budget for extracted text.
	MaxChars int `mapstructure:"max_chars" yaml:"max_chars"`
}

// GenerationMode selects how the final summary is produced.
type GenerationMode string

const (
	ModeFull        GenerationMode = "full"
	ModeLightweight GenerationMode = "lightweight"
	ModeTwoPhase    GenerationMode = "two_phase"
)

// SummarySettings configures prompt rendering and generation.
type SummarySettings struct {
	Template          string         `mapstructure:"template" yaml:"template"`
	Temperature       float64        `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens         int            `mapstructure:"max_tokens" yaml:"max_tokens"`
	MaxRetries        int            `mapstructure:"max_retries" yaml:"max_retries"`
	Mode              GenerationMode `mapstructure:"mode" yaml:"mode"`
	PDFEnhanceEnabled bool           `mapstructure:"pdf_enhance_enabled" yaml:"pdf_enhance_enabled"`
}

// Config is the root configuration object.
type Config struct {
	API        APISettings        `mapstructure:"api" yaml:"api"`
	Browser    BrowserSettings    `mapstructure:"browser" yaml:"browser"`
	FlexMode   FlexModeSettings   `mapstructure:"flex_mode" yaml:"flex_mode"`
	Arxiv      ArxivSettings      `mapstructure:"arxiv" yaml:"arxiv"`
	PapersCool PapersCoolSettings `mapstructure:"papers_cool" yaml:"papers_cool"`
	Paths      PathsSettings      `mapstructure:"paths" yaml:"paths"`
	PDF        PDFSettings        `mapstructure:"pdf" yaml:"pdf"`
	Summary    SummarySettings    `mapstructure:"summary" yaml:"summary"`
}

// HTTPTimeout returns the provider timeout as a duration, defaulting
// to 120 seconds when unset.
func (p ProviderSettings) HTTPTimeout() time.Duration {
	if p.Timeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(p.Timeout) * time.Second
}

// CacheTTLDuration returns the HTML cache TTL as a duration.
func (b BrowserSettings) CacheTTLDuration() time.Duration {
	return time.Duration(b.CacheTTL) * time.Second
}

// Default returns the configuration used when no file is present. The
// endpoint values mirror the public services the tool targets.
func Default() Config {
	return Config{
		API: APISettings{
			Text: ProviderSettings{
				Provider: "siliconflow",
				BaseURL:  "https://api.siliconflow.cn/v1",
				Model:    "deepseek-ai/DeepSeek-V3.2",
				Timeout:  120,
			},
			VL: ProviderSettings{
				Provider: "openai",
				BaseURL:  "https://api.openai.com/v1",
				Model:    "gpt-4o",
				Timeout:  120,
			},
		},
		Browser: BrowserSettings{
			Enabled:      true,
			Headless:     true,
			Timeout:      30000,
			UserAgent:    "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
			CacheEnabled: true,
			CacheTTL:     86400,
			CacheDir:     "./cache/html",
		},
		FlexMode: FlexModeSettings{
			Enabled:       false,
			ArxivAPI:      true,
			PapersCoolAPI: false,
		},
		Arxiv: ArxivSettings{
			APIURL:    "https://export.arxiv.org/api/query",
			PDFURL:    "https://arxiv.org/pdf/{id}.pdf",
			UserAgent: "paper-digest/0.1",
			Strategy:  APIFirst,
		},
		PapersCool: PapersCoolSettings{
			BaseURL:      "https://papers.cool",
			KimiEndpoint: "/arxiv/kimi",
			Timeout:      60,
			Strategy:     APIFirst,
		},
		Paths: PathsSettings{
			CacheDir:     "./cache",
			PDFDir:       "./cache/pdfs",
			SummariesDir: "./cache/summaries",
			CommentsDir:  "./data/comments",
			TemplatesDir: "./templates",
			SlidesDir:    "./slides",
		},
		PDF: PDFSettings{
			MaxPages: 0,
			MaxChars: 50000,
		},
		Summary: SummarySettings{
			Template:          "academic_summary.md.tmpl",
			Temperature:       0.3,
			MaxTokens:         4096,
			MaxRetries:        3,
			Mode:              ModeFull,
			PDFEnhanceEnabled: true,
		},
	}
}
