package config

import (
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	// Server-side settings
	DatabaseDSN   string        `env:"DATABASE_URI"`
	DBMaxConns    int           `env:"DB_MAX_CONNS"`
	AuthSecret    string        `env:"AUTH_SECRET"`
	TokenTTL      time.Duration `env:"TOKEN_TTL"`
	PDFOutputDir  string        `env:"PDF_OUTPUT_DIR"`
	TemplateDir   string        `env:"TEMPLATE_DIR"`
	ChromePath    string        `env:"CHROME_PATH"`
	ExportTimeout time.Duration `env:"PDF_TIMEOUT"`
	NumberRetries int           `env:"INVOICE_NUMBER_RETRIES" envDefault:"-1"`

	// Реквизиты, которые подставляются в документ
	BankName        string `env:"BANK_NAME"`
	BankAccount     string `env:"BANK_ACCOUNT"`
	BankAccountName string `env:"BANK_ACCOUNT_NAME"`

	// Shared settings
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Client-side settings
	ServerURL string `env:"-"`
	TokenFile string `env:"TOKEN_FILE"`
	Version   bool   `env:"-"` // show client version and exit (flag only)
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	// Server flags
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.IntVar(&cfg.DBMaxConns, "db-max-conns", cfg.DBMaxConns, "максимум открытых соединений с БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи JWT")
	flag.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "время жизни JWT")
	flag.StringVar(&cfg.PDFOutputDir, "pdf-dir", cfg.PDFOutputDir, "каталог для сохранённых PDF")
	flag.StringVar(&cfg.TemplateDir, "template-dir", cfg.TemplateDir, "каталог с шаблоном счёта (пусто - встроенный)")
	flag.StringVar(&cfg.ChromePath, "chrome", cfg.ChromePath, "путь к исполняемому файлу Chrome/Chromium")
	flag.DurationVar(&cfg.ExportTimeout, "pdf-timeout", cfg.ExportTimeout, "таймаут генерации PDF (0 - без таймаута)")
	flag.IntVar(&cfg.NumberRetries, "number-retries", cfg.NumberRetries, "повторы при коллизии номера счёта")
	// Shared/client flags
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "base URL of the invoice server (host:port)")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "enable HTTPS (client: prefer https scheme for BaseURL)")
	// Client flags
	flag.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "path to auth token file (client)")
	flag.BoolVar(&cfg.Version, "version", cfg.Version, "Show client version and exit")

	flag.Parse()

	cfg.applyDefaults()

	return cfg
}

// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
var hostPortRe = regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)

func (cfg *Config) applyDefaults() {
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = "file:invoices.db?cache=shared"
	}
	if cfg.DBMaxConns <= 0 {
		cfg.DBMaxConns = 10
	}
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.PDFOutputDir == "" {
		cfg.PDFOutputDir = "./pdfs"
	}
	if cfg.ExportTimeout < 0 {
		cfg.ExportTimeout = 0
	}
	// 0 допустим: без повторов
	if cfg.NumberRetries < 0 {
		cfg.NumberRetries = 3
	}
	if cfg.BankName == "" {
		cfg.BankName = "Bank Name"
	}
	if cfg.BankAccount == "" {
		cfg.BankAccount = "1234567890"
	}
	if cfg.BankAccountName == "" {
		cfg.BankAccountName = "Your Name"
	}

	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8081"
	}
	if cfg.EnableHTTPS {
		cfg.ServerURL = "https://" + cfg.BaseURL
	} else {
		cfg.ServerURL = "http://" + cfg.BaseURL
	}

	// Fill client defaults if empty
	if cfg.TokenFile == "" {
		home, _ := os.UserHomeDir()
		cfg.TokenFile = filepath.Join(home, ".invctl_token")
	}
}
