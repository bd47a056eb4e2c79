package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/vfg2006/budget-hunter/internal/domain"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
	Discovery     Discovery     `mapstructure:",squash"`
	Rixbee        Rixbee        `mapstructure:",squash"`
	Broadciel     Broadciel     `mapstructure:",squash"`
	Sync          Sync          `mapstructure:",squash"`
	DailySync     DailySync     `mapstructure:",squash"`
	IntegritySync IntegritySync `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret          string   `mapstructure:"auth_secret"`
	SchedulerSecret string   `mapstructure:"scheduler_secret"`
	AllowedOrigins  []string `mapstructure:"cors_allowed_origins"`
}

type Discovery struct {
	AuthURL            string        `mapstructure:"discovery_auth_url"`
	BaseURL            string        `mapstructure:"discovery_base_url"`
	Country            string        `mapstructure:"discovery_country"`
	BatchSize          int           `mapstructure:"discovery_batch_size"`
	MaxAttempts        int           `mapstructure:"discovery_max_attempts"`
	TokenTTL           time.Duration `mapstructure:"discovery_token_ttl"`
	AllowlistAccount   string        `mapstructure:"discovery_allowlist_account"`
	AllowlistCampaigns []string      `mapstructure:"discovery_allowlist_campaigns"`
}

// RixbeeCredential é o par usuário/token de acesso ao relatório da Rixbee
type RixbeeCredential struct {
	UserID string
	Token  string
}

type Rixbee struct {
	URL           string   `mapstructure:"rixbee_url"`
	Timezone      string   `mapstructure:"rixbee_timezone"`
	Currency      string   `mapstructure:"rixbee_currency"`
	Dimensions    []string `mapstructure:"rixbee_dimensions"`
	WindowDays    int      `mapstructure:"rixbee_window_days"`
	MaxConcurrent int      `mapstructure:"rixbee_max_concurrent"`
	DefaultUserID string   `mapstructure:"rixbee_default_user_id"`
	DefaultToken  string   `mapstructure:"rixbee_default_token"`
	DirectUserID  string   `mapstructure:"rixbee_direct_user_id"`
	DirectToken   string   `mapstructure:"rixbee_direct_token"`
	SuperUserID   string   `mapstructure:"rixbee_super_user_id"`
	SuperToken    string   `mapstructure:"rixbee_super_token"`

	Credentials map[domain.Agent]RixbeeCredential `mapstructure:"-"`
}

type Broadciel struct {
	BaseURL      string        `mapstructure:"broadciel_base_url"`
	AccountsFile string        `mapstructure:"broadciel_accounts_file"`
	MaxRetries   int           `mapstructure:"broadciel_max_retries"`
	RetryBackoff time.Duration `mapstructure:"broadciel_retry_backoff"`

	Accounts []BroadcielAccount `mapstructure:"-"`
}

type Sync struct {
	UTCOffsetHours int `mapstructure:"sync_utc_offset_hours"`

	Location *time.Location `mapstructure:"-"`
}

type DailySync struct {
	CronSchedule string `mapstructure:"daily_sync_cron"`
	LookbackDays int    `mapstructure:"daily_sync_lookback_days"`
	Enabled      bool   `mapstructure:"daily_sync_enabled"`
}

type IntegritySync struct {
	CronSchedule string `mapstructure:"integrity_sync_cron"`
	Enabled      bool   `mapstructure:"integrity_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/budget_hunter?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")
	viper.SetDefault("SCHEDULER_SECRET", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DISCOVERY_AUTH_URL", "https://s2s.popin.cc/data/v1/authentication")
	viper.SetDefault("DISCOVERY_BASE_URL", "https://s2s.popin.cc/discovery/api/v2")
	viper.SetDefault("DISCOVERY_COUNTRY", "tw")
	viper.SetDefault("DISCOVERY_BATCH_SIZE", 5)
	viper.SetDefault("DISCOVERY_MAX_ATTEMPTS", 3)
	viper.SetDefault("DISCOVERY_TOKEN_TTL", "55m")
	viper.SetDefault("DISCOVERY_ALLOWLIST_ACCOUNT", "")
	viper.SetDefault("DISCOVERY_ALLOWLIST_CAMPAIGNS", "")

	viper.SetDefault("RIXBEE_URL", "https://broadciel.rpt.rixbeedesk.com/api/report/v1")
	viper.SetDefault("RIXBEE_TIMEZONE", "UTC+8")
	viper.SetDefault("RIXBEE_CURRENCY", "TWD")
	viper.SetDefault("RIXBEE_DIMENSIONS", "day,user_id")
	viper.SetDefault("RIXBEE_WINDOW_DAYS", 7)
	viper.SetDefault("RIXBEE_MAX_CONCURRENT", 5)
	viper.SetDefault("RIXBEE_DEFAULT_USER_ID", "7161")
	viper.SetDefault("RIXBEE_DIRECT_USER_ID", "7168")
	viper.SetDefault("RIXBEE_SUPER_USER_ID", "7153")

	viper.SetDefault("BROADCIEL_BASE_URL", "https://broadciel.ads.rixbeedesk.com/api/v2")
	viper.SetDefault("BROADCIEL_ACCOUNTS_FILE", "config/account.json")
	viper.SetDefault("BROADCIEL_MAX_RETRIES", 2)
	viper.SetDefault("BROADCIEL_RETRY_BACKOFF", "1s")

	viper.SetDefault("SYNC_UTC_OFFSET_HOURS", 8)

	viper.SetDefault("DAILY_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("DAILY_SYNC_LOOKBACK_DAYS", 1)
	viper.SetDefault("DAILY_SYNC_ENABLED", false)

	viper.SetDefault("INTEGRITY_SYNC_CRON", "0 */6 * * *") // A cada 6 horas
	viper.SetDefault("INTEGRITY_SYNC_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Rixbee.Credentials = config.Rixbee.credentialTable()
	config.Sync.Location = time.FixedZone(fmt.Sprintf("UTC%+d", config.Sync.UTCOffsetHours), config.Sync.UTCOffsetHours*3600)

	accounts, err := LoadBroadcielAccounts(config.Broadciel.AccountsFile)
	if err != nil {
		logrus.WithError(err).Warn("Não foi possível carregar as contas da Broadciel")
	}
	config.Broadciel.Accounts = accounts

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// credentialTable monta a tabela agente -> credencial usada pelos relatórios
func (r Rixbee) credentialTable() map[domain.Agent]RixbeeCredential {
	return map[domain.Agent]RixbeeCredential{
		domain.AgentDefault: {UserID: r.DefaultUserID, Token: r.DefaultToken},
		domain.AgentDirect:  {UserID: r.DirectUserID, Token: r.DirectToken},
		domain.AgentSuper:   {UserID: r.SuperUserID, Token: r.SuperToken},
	}
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
