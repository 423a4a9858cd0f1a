package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

type Config struct {
	HTTPAddr   string `env:"HTTP_ADDR" envDefault:":8080"`
	ReportsDir string `env:"REPORTS_DIR" envDefault:"reports"`

	Database DatabaseConfig
	Redis    RedisConfig
	Pricing  PricingConfig
	Telegram TelegramConfig
	Company  CompanyConfig
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST,required"`
	Port            int           `env:"DB_PORT,required"`
	User            string        `env:"DB_USER,required"`
	Password        string        `env:"DB_PASSWORD,required"`
	Name            string        `env:"DB_NAME,required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"2m"`
}

// RedisConfig configures the catalog cache. An empty addr disables caching;
// the service works without it.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"24h"`
}

// PricingConfig locates the local JSON blobs the pricing engine persists:
// operator price overrides plus the two catalog preference lists.
type PricingConfig struct {
	OverridesPath      string `env:"OVERRIDES_PATH" envDefault:"data/pricing_overrides.json"`
	ExtraCustomersPath string `env:"EXTRA_CUSTOMERS_PATH" envDefault:"data/pricing_extra_customers.json"`
	CustomSizesPath    string `env:"CUSTOM_SIZES_PATH" envDefault:"data/pricing_custom_sizes.json"`
}

// TelegramConfig configures booking notifications. An empty token disables
// them.
type TelegramConfig struct {
	Token        string  `env:"TELEGRAM_TOKEN"`
	AdminChatIDs []int64 `env:"ADMIN_CHAT_IDS" envSeparator:","`
}

// CompanyConfig carries the letterhead defaults printed on offers and
// invoices.
type CompanyConfig struct {
	Name           string `env:"COMPANY_NAME" envDefault:"شركة الفارس الذهبي للدعاية والإعلان"`
	Address        string `env:"COMPANY_ADDRESS" envDefault:"طرابلس – طريق المطار، حي الزهور"`
	Representative string `env:"COMPANY_REP" envDefault:"جمال امحمد زحيلق (المدير العام)"`
	IBAN           string `env:"COMPANY_IBAN" envDefault:"LY15014051021405100053401"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
