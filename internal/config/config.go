package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the layout of start and end dates in the config file.
const DateLayout = "2006-01-02"

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		Symbol   string `yaml:"symbol"`
		Start    string `yaml:"start"`
		End      string `yaml:"end"`
		Interval string `yaml:"interval"`
	} `yaml:"data_source"`
	Model struct {
		AnnualDiscountRate float64 `yaml:"annual_discount_rate"`
		DividendYield      float64 `yaml:"dividend_yield"`
		PeriodsPerYear     int     `yaml:"periods_per_year"`
	} `yaml:"model"`
	Cache struct {
		SQLitePath string        `yaml:"sqlite_path"`
		TTL        time.Duration `yaml:"ttl"`
		Disabled   bool          `yaml:"disabled"`
	} `yaml:"cache"`
	Report struct {
		CSVPath   string `yaml:"csv_path"`
		Precision int    `yaml:"precision"`
		Rows      int    `yaml:"rows"`
	} `yaml:"report"`
	Schedule struct {
		Cron string `yaml:"cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Proxy string `yaml:"proxy"`

	// discountRateSet and dividendYieldSet record explicit zero values so
	// defaults do not overwrite them.
	discountRateSet  bool
	dividendYieldSet bool
}

// rawModel detects which model keys were present in the file.
type rawModel struct {
	Model map[string]any `yaml:"model"`
}

// periodsForInterval maps a sampling interval to periods per year.
var periodsForInterval = map[string]int{
	"1mo": 12,
	"1wk": 52,
	"1d":  252,
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
		var raw rawModel
		if err := yaml.Unmarshal(data, &raw); err == nil {
			_, cfg.discountRateSet = raw.Model["annual_discount_rate"]
			_, cfg.dividendYieldSet = raw.Model["dividend_yield"]
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("RP_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("RP_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("RP_START"); v != "" {
		c.DataSource.Start = v
	}
	if v := os.Getenv("RP_END"); v != "" {
		c.DataSource.End = v
	}
	if v := os.Getenv("RP_DISCOUNT_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RP_DISCOUNT_RATE: %w", err)
		}
		c.SetDiscountRate(rate)
	}
	if v := os.Getenv("RP_DIVIDEND_YIELD"); v != "" {
		y, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RP_DIVIDEND_YIELD: %w", err)
		}
		c.SetDividendYield(y)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Cache.SQLitePath = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("CRON_SCHEDULE"); v != "" {
		c.Schedule.Cron = v
	}
	return nil
}

// SetDiscountRate sets the annual discount rate, including an explicit zero.
func (c *Config) SetDiscountRate(rate float64) {
	c.Model.AnnualDiscountRate = rate
	c.discountRateSet = true
}

// SetDividendYield sets the dividend yield, including an explicit zero.
func (c *Config) SetDividendYield(y float64) {
	c.Model.DividendYield = y
	c.dividendYieldSet = true
}

// ApplyDefaults fills every unset field. It is safe to call more than once,
// which the CLI does after applying flag overrides.
func (c *Config) ApplyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "^GSPC"
	}
	if c.DataSource.Start == "" {
		c.DataSource.Start = "1980-01-01"
	}
	if c.DataSource.End == "" {
		c.DataSource.End = "2025-01-01"
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "1mo"
	}
	if !c.discountRateSet && c.Model.AnnualDiscountRate == 0 {
		c.Model.AnnualDiscountRate = 0.06
	}
	if !c.dividendYieldSet && c.Model.DividendYield == 0 {
		c.Model.DividendYield = 0.02
	}
	if c.Model.PeriodsPerYear == 0 {
		c.Model.PeriodsPerYear = periodsForInterval[c.DataSource.Interval]
	}
	if c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = "data/rational_price.db"
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 24 * time.Hour
	}
	if c.Report.Precision == 0 {
		c.Report.Precision = 4
	}
	if c.Report.Rows == 0 {
		c.Report.Rows = 12
	}
	if c.Schedule.Cron == "" {
		c.Schedule.Cron = "0 0 6 2 * *"
	}
}

// StartDate parses data_source.start.
func (c *Config) StartDate() (time.Time, error) {
	return time.Parse(DateLayout, c.DataSource.Start)
}

// EndDate parses data_source.end.
func (c *Config) EndDate() (time.Time, error) {
	return time.Parse(DateLayout, c.DataSource.End)
}

// TelegramEnabled reports whether a bot token and chat id are both set.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "financego", "mock":
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, financego, mock", c.DataSource.Provider)
	}
	if _, ok := periodsForInterval[c.DataSource.Interval]; !ok {
		return fmt.Errorf("data_source.interval %q is not one of 1mo, 1wk, 1d", c.DataSource.Interval)
	}
	start, err := c.StartDate()
	if err != nil {
		return fmt.Errorf("data_source.start: %w", err)
	}
	end, err := c.EndDate()
	if err != nil {
		return fmt.Errorf("data_source.end: %w", err)
	}
	if !end.After(start) {
		return fmt.Errorf("data_source.end must be after data_source.start")
	}
	if c.Model.PeriodsPerYear <= 0 {
		return fmt.Errorf("model.periods_per_year must be positive")
	}
	if c.Model.AnnualDiscountRate <= -1 {
		return fmt.Errorf("model.annual_discount_rate must be greater than -1")
	}
	if c.Model.DividendYield < 0 {
		return fmt.Errorf("model.dividend_yield must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}
