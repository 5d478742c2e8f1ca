package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerPort  string
	Environment string
	LogLevel    string
	CORSOrigins []string

	Storage StorageConfig
	Redis   RedisConfig
	Auth    AuthConfig
	Payment PaymentConfig
	Mail    MailConfig
	Rules   RulesConfig
}

type StorageConfig struct {
	Driver             string
	FirebaseProject    string
	ServiceAccountPath string
	ServiceAccountJSON string
	MongoURI           string
	MongoDatabase      string
	Timeout            time.Duration
}

type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	RankingTTL time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

type AuthConfig struct {
	Provider  string
	JWTSecret string
	JWTExpiry time.Duration
}

type PaymentConfig struct {
	Provider            string
	StripeSecretKey     string
	MidtransServerKey   string
	MidtransEnvironment string
	RateLimit           int // requests per minute per client
}

type MailConfig struct {
	Domain string
	APIKey string
	Sender string
}

// Enabled reports whether Mailgun credentials were configured.
func (m MailConfig) Enabled() bool {
	return m.Domain != "" && m.APIKey != ""
}

// RulesConfig holds the business tables that vary between deployments.
type RulesConfig struct {
	PriceTiers map[int]float64
	RatingMin  int
	RatingMax  int
}

const (
	StorageFirestore = "firestore"
	StorageMongo     = "mongo"
	StorageMemory    = "memory"

	AuthJWT      = "jwt"
	AuthFirebase = "firebase"

	PaymentStripe   = "stripe"
	PaymentMidtrans = "midtrans"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")

	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("MONGO_DATABASE", "parcel-mama")
	v.SetDefault("PERSISTENCE_TIMEOUT", "5s")

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RANKING_CACHE_TTL", "30s")

	v.SetDefault("AUTH_PROVIDER", AuthJWT)
	v.SetDefault("JWT_EXPIRY", "1h")

	v.SetDefault("PAYMENT_PROVIDER", PaymentStripe)
	v.SetDefault("MIDTRANS_ENVIRONMENT", "sandbox")
	v.SetDefault("PAYMENT_RATE_LIMIT", 10)

	v.SetDefault("MAILGUN_SENDER", "Parcel Mama <mailgun@parcelmama.local>")

	v.SetDefault("PRICE_TIERS", "1:50,2:100,3:150")
	v.SetDefault("RATING_MIN", 1)
	v.SetDefault("RATING_MAX", 5)
}

func Load() (*Config, error) {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	tiers, err := ParsePriceTiers(v.GetString("PRICE_TIERS"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ServerPort:  v.GetString("SERVER_PORT"),
		Environment: v.GetString("ENVIRONMENT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		Storage: StorageConfig{
			Driver:             strings.ToLower(v.GetString("STORAGE_DRIVER")),
			FirebaseProject:    v.GetString("FIREBASE_PROJECT_ID"),
			ServiceAccountPath: v.GetString("FIREBASE_SERVICE_ACCOUNT_PATH"),
			ServiceAccountJSON: v.GetString("FIREBASE_SERVICE_ACCOUNT_JSON"),
			MongoURI:           v.GetString("MONGO_URI"),
			MongoDatabase:      v.GetString("MONGO_DATABASE"),
			Timeout:            v.GetDuration("PERSISTENCE_TIMEOUT"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("REDIS_ADDR"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			RankingTTL: v.GetDuration("RANKING_CACHE_TTL"),
		},
		Auth: AuthConfig{
			Provider:  strings.ToLower(v.GetString("AUTH_PROVIDER")),
			JWTSecret: v.GetString("JWT_SECRET"),
			JWTExpiry: v.GetDuration("JWT_EXPIRY"),
		},
		Payment: PaymentConfig{
			Provider:            strings.ToLower(v.GetString("PAYMENT_PROVIDER")),
			StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			MidtransServerKey:   v.GetString("MIDTRANS_SERVER_KEY"),
			MidtransEnvironment: v.GetString("MIDTRANS_ENVIRONMENT"),
			RateLimit:           v.GetInt("PAYMENT_RATE_LIMIT"),
		},
		Mail: MailConfig{
			Domain: v.GetString("MAILGUN_DOMAIN"),
			APIKey: v.GetString("MAILGUN_API_KEY"),
			Sender: v.GetString("MAILGUN_SENDER"),
		},
		Rules: RulesConfig{
			PriceTiers: tiers,
			RatingMin:  v.GetInt("RATING_MIN"),
			RatingMax:  v.GetInt("RATING_MAX"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StorageFirestore:
		if c.Storage.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firestore driver")
		}
	case StorageMongo:
		if c.Storage.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	switch c.Auth.Provider {
	case AuthJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required for the jwt auth provider")
		}
	case AuthFirebase:
		if c.Storage.FirebaseProject == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required for the firebase auth provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}

	switch c.Payment.Provider {
	case PaymentStripe, PaymentMidtrans:
	default:
		return fmt.Errorf("unknown PAYMENT_PROVIDER %q", c.Payment.Provider)
	}

	if c.Rules.RatingMin > c.Rules.RatingMax {
		return fmt.Errorf("RATING_MIN (%d) exceeds RATING_MAX (%d)", c.Rules.RatingMin, c.Rules.RatingMax)
	}
	if c.Storage.Timeout <= 0 {
		return fmt.Errorf("PERSISTENCE_TIMEOUT must be positive")
	}

	return nil
}

// ParsePriceTiers reads "minWeight:price" pairs, e.g. "1:50,2:100,3:150".
func ParsePriceTiers(raw string) (map[int]float64, error) {
	tiers := make(map[int]float64)
	for _, pair := range splitList(raw) {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid price tier %q", pair)
		}
		weight, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid price tier weight %q: %w", parts[0], err)
		}
		price, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid price tier price %q: %w", parts[1], err)
		}
		tiers[weight] = price
	}
	if len(tiers) == 0 {
		return nil, fmt.Errorf("PRICE_TIERS must define at least one tier")
	}
	return tiers, nil
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
