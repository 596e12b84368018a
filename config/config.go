package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// App carries all environment-driven configuration, read once at start.
type App struct {
	// Server
	Port    string `envconfig:"PORT" default:"8080"`
	GinMode string `envconfig:"GIN_MODE" default:"debug"`

	// Database
	DBPath string `envconfig:"DB_PATH" default:"tiffin_market.db"`

	// Auth
	JWTSecret    string `envconfig:"JWT_SECRET" default:"tiffin_market_super_secret_2024"`
	TokenTTLDays int    `envconfig:"TOKEN_TTL_DAYS" default:"7"`

	// Payment gateway
	PaymentKeyID  string `envconfig:"PAYMENT_KEY_ID"`
	PaymentSecret string `envconfig:"PAYMENT_KEY_SECRET"`

	// Email provider
	EmailAPIURL string `envconfig:"EMAIL_API_URL"`
	EmailAPIKey string `envconfig:"EMAIL_API_KEY"`
	EmailFrom   string `envconfig:"EMAIL_FROM" default:"no-reply@tiffinmarket.local"`
	AdminEmail  string `envconfig:"ADMIN_NOTIFY_EMAIL" default:"admin@tiffinmarket.local"`

	// Admin bootstrap account
	AdminLoginEmail    string `envconfig:"ADMIN_EMAIL"`
	AdminLoginPassword string `envconfig:"ADMIN_PASSWORD"`

	// Checkout charges
	DeliveryFee float64 `envconfig:"DELIVERY_FEE" default:"40"`
	TaxPercent  float64 `envconfig:"TAX_PERCENT" default:"5"`
}

// Load reads configuration from the process environment. A .env file is
// applied first when present.
func Load() (App, error) {
	_ = godotenv.Load()
	var c App
	err := envconfig.Process("", &c)
	return c, err
}

// Production reports whether the server runs in release mode; cookies are
// marked Secure only then.
func (c App) Production() bool {
	return c.GinMode == "release"
}
