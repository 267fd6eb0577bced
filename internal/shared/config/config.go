package config

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Game      GameConfig
	Admin     AdminConfig
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

type ServerConfig struct {
	Port            string
	URL             string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	CookieSecure    bool
	CookieSameSite  string
}

type OAuthConfig struct {
	Google  ProviderConfig
	GitHub  ProviderConfig
	Discord ProviderConfig
}

// ProviderConfig holds the client credentials of one OAuth login provider.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

func (p ProviderConfig) Configured() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

type FrontendConfig struct {
	URL       string
	CORSDebug bool
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// GameConfig tunes progression and the crystal economy.
type GameConfig struct {
	DeathChanceEnabled  bool
	YearsPerChoice      int
	DailyRewardAmount   int
	DailyRewardCooldown time.Duration
	RewindCostPerStep   int
	StartingCrystals    int
	SessionCacheSize    int
	SaveEncryptionKey   string
}

type AdminConfig struct {
	Email       string
	Username    string
	DisplayName string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using system environment variables")
	}

	config := load()

	if err := config.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

func load() *Config {
	return &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		OAuth:     loadOAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Game:      loadGameConfig(),
		Admin:     loadAdminConfig(),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  GetEnv("REDIS_ENABLED", "true") == "true",
		URL:      GetEnv("REDIS_URL", ""),
		Host:     GetEnv("REDIS_HOST", "localhost"),
		Port:     GetEnv("REDIS_PORT", "6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
		CacheTTL: time.Duration(getEnvInt("REDIS_CACHE_TTL_MINUTES", 30)) * time.Minute,
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            GetEnv("SERVER_PORT", "8080"),
		URL:             GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:     GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:     time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SECONDS", 15)) * time.Second,
		WriteTimeout:    time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SECONDS", 15)) * time.Second,
		IdleTimeout:     time.Duration(getEnvInt("SERVER_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
		ShutdownTimeout: time.Duration(getEnvInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:            GetEnv("DB_HOST", "localhost"),
		Port:            GetEnv("DB_PORT", "5432"),
		User:            GetEnv("DB_USER", "postgres"),
		Password:        GetEnv("DB_PASSWORD", "postgres"),
		Name:            GetEnv("DB_NAME", "lifesim"),
		SSLMode:         GetEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
		MigrationsPath:  GetEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadAuthConfig() AuthConfig {
	environment := GetEnv("ENVIRONMENT", "development")

	return AuthConfig{
		JWTSecret:       GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(getEnvInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour,
		CookieSecure:    environment == "production",
		CookieSameSite:  GetEnv("COOKIE_SAME_SITE", "lax"),
	}
}

func loadOAuthConfig() OAuthConfig {
	serverURL := GetEnv("SERVER_URL", "http://localhost:8080")

	return OAuthConfig{
		Google: ProviderConfig{
			ClientID:     GetEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: GetEnv("GOOGLE_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/google/callback",
			Scopes:       []string{"openid", "profile", "email"},
		},
		GitHub: ProviderConfig{
			ClientID:     GetEnv("GITHUB_CLIENT_ID", ""),
			ClientSecret: GetEnv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/github/callback",
			Scopes:       []string{"user:email"},
		},
		Discord: ProviderConfig{
			ClientID:     GetEnv("DISCORD_CLIENT_ID", ""),
			ClientSecret: GetEnv("DISCORD_CLIENT_SECRET", ""),
			RedirectURL:  serverURL + "/auth/discord/callback",
			Scopes:       []string{"identify", "email"},
		},
	}
}

func loadFrontendConfig() FrontendConfig {
	return FrontendConfig{
		URL:       GetEnv("FRONTEND_URL", "http://localhost:3000"),
		CORSDebug: GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      GetEnv("LOG_LEVEL", "debug"),
		Format:     GetEnv("LOG_FORMAT", "text"),
		JSONFormat: environment == "production" || GetEnv("LOG_FORMAT", "text") == "json",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           GetEnv("RATE_LIMIT_ENABLED", "true") == "true",
		RequestsPerSecond: getEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         getEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        GetEnv("RATE_LIMIT_TRUST_PROXY", "false") == "true",
	}
}

func loadGameConfig() GameConfig {
	return GameConfig{
		DeathChanceEnabled:  GetEnv("GAME_DEATH_CHANCE_ENABLED", "true") == "true",
		YearsPerChoice:      getEnvInt("GAME_YEARS_PER_CHOICE", 1),
		DailyRewardAmount:   getEnvInt("GAME_DAILY_REWARD_AMOUNT", 50),
		DailyRewardCooldown: time.Duration(getEnvInt("GAME_DAILY_REWARD_COOLDOWN_HOURS", 24)) * time.Hour,
		RewindCostPerStep:   getEnvInt("GAME_REWIND_COST_PER_STEP", 10),
		StartingCrystals:    getEnvInt("GAME_STARTING_CRYSTALS", 0),
		SessionCacheSize:    getEnvInt("GAME_SESSION_CACHE_SIZE", 1024),
		SaveEncryptionKey:   GetEnv("GAME_SAVE_ENCRYPTION_KEY", ""),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Email:       GetEnv("ADMIN_EMAIL", "admin@localhost"),
		Username:    GetEnv("ADMIN_USERNAME", "admin"),
		DisplayName: GetEnv("ADMIN_DISPLAY_NAME", "Admin"),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}

	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}

	if c.Server.URL == "" {
		return fmt.Errorf("SERVER_URL is required")
	}

	if c.Game.YearsPerChoice < 0 {
		return fmt.Errorf("GAME_YEARS_PER_CHOICE must not be negative")
	}

	if c.Game.DailyRewardAmount < 0 || c.Game.RewindCostPerStep < 0 || c.Game.StartingCrystals < 0 {
		return fmt.Errorf("game crystal amounts must not be negative")
	}

	if c.Game.SessionCacheSize <= 0 {
		return fmt.Errorf("GAME_SESSION_CACHE_SIZE must be positive")
	}

	if c.Game.SaveEncryptionKey != "" {
		if _, err := c.Game.EncryptionKey(); err != nil {
			return err
		}
	}

	return nil
}

// EncryptionKey decodes GAME_SAVE_ENCRYPTION_KEY. A nil key means saves are
// stored in the clear.
func (g GameConfig) EncryptionKey() ([]byte, error) {
	if g.SaveEncryptionKey == "" {
		return nil, nil
	}

	key, err := hex.DecodeString(g.SaveEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("GAME_SAVE_ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("GAME_SAVE_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
