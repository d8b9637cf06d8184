package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	auth "github.com/lifeline/blood-donation-go/auth"
	payment "github.com/lifeline/blood-donation-go/payment"
	store "github.com/lifeline/blood-donation-go/store"
	utils "github.com/lifeline/blood-donation-go/utils"
)

// Config holds settings read from the environment together with the
// long-lived clients built from them. Handlers receive it directly.
type Config struct {
	AppEnv         string
	Port           string
	MongoURI       string
	DBName         string
	JWTSecret      string
	TokenTTL       time.Duration
	StripeKey      string
	Currency       string
	AllowedOrigins []string

	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	ZeptoAPIURL string
	ZeptoAPIKey string
	EmailFrom   string

	MongoClient *mongo.Client
	Store       *store.Store
	Tokens      *auth.TokenService
	Payments    payment.Processor
	Images      utils.ImageStore
	Mailer      utils.Mailer
	Logger      zerolog.Logger
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env", ".env.local")

	cfg := &Config{
		AppEnv:              getEnv("APP_ENV", "development"),
		Port:                getEnv("PORT", "5000"),
		MongoURI:            os.Getenv("MONGODB_URI"),
		DBName:              getEnv("DB_NAME", "bloodDonation"),
		JWTSecret:           os.Getenv("ACCESS_TOKEN_SECRET"),
		TokenTTL:            time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		StripeKey:           os.Getenv("STRIPE_SECRET_KEY"),
		Currency:            getEnv("PAYMENT_CURRENCY", "usd"),
		AllowedOrigins:      splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		ZeptoAPIURL:         os.Getenv("ZEPTO_API_URL"),
		ZeptoAPIKey:         os.Getenv("ZEPTO_API_KEY"),
		EmailFrom:           os.Getenv("EMAIL_FROM"),
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("ACCESS_TOKEN_SECRET is required")
	}

	cfg.Logger = NewLogger(cfg.AppEnv)
	cfg.Tokens = auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	cfg.wireIntegrations()
	return cfg, nil
}

// wireIntegrations builds the optional third-party clients. Missing
// credentials leave the integration disabled rather than failing startup.
func (cfg *Config) wireIntegrations() {
	if cfg.StripeKey != "" {
		cfg.Payments = payment.NewStripe(cfg.StripeKey)
	} else {
		cfg.Logger.Warn().Msg("STRIPE_SECRET_KEY not set, payment intents disabled")
	}

	if cfg.CloudinaryCloudName != "" {
		images, err := utils.NewCloudinaryStore(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			cfg.Logger.Warn().Err(err).Msg("blog image uploads disabled")
		} else {
			cfg.Images = images
		}
	}

	if mailer, err := utils.NewZeptoMailer(cfg.ZeptoAPIURL, cfg.ZeptoAPIKey, cfg.EmailFrom); err == nil {
		cfg.Mailer = mailer
	} else {
		cfg.Logger.Info().Msg("email notifications disabled")
	}
}

// Connect dials MongoDB, verifies the connection and builds the stores.
func (cfg *Config) Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.DBName)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		cfg.Logger.Warn().Err(err).Msg("could not ensure indexes")
	}

	cfg.MongoClient = client
	cfg.Store = store.NewMongo(db)
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
