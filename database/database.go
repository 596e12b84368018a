package database

import (
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tiffin-market-api/config"
	"tiffin-market-api/models"
)

// Handle is the injected data-access handle. Opening and migrating the
// database happens lazily on first Get; concurrent first calls collapse into
// a single open via singleflight.
type Handle struct {
	cfg   config.App
	group singleflight.Group
	db    *gorm.DB
}

func NewHandle(cfg config.App) *Handle {
	return &Handle{cfg: cfg}
}

// Get returns the shared *gorm.DB, opening it on first use.
func (h *Handle) Get() (*gorm.DB, error) {
	if h.db != nil {
		return h.db, nil
	}
	v, err, _ := h.group.Do("open", func() (interface{}, error) {
		if h.db != nil {
			return h.db, nil
		}
		db, err := open(h.cfg)
		if err != nil {
			return nil, err
		}
		h.db = db
		return db, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*gorm.DB), nil
}

func open(cfg config.App) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db, cfg); err != nil {
		return nil, err
	}
	log.Info().Str("path", cfg.DBPath).Msg("database connected and migrated")
	return db, nil
}

// Migrate applies the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.TempUser{},
		&models.PasswordReset{},
		&models.Kitchen{},
		&models.MenuItem{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.SubscriptionPlan{},
		&models.SellerSubscription{},
	)
}

// Seed bootstraps the admin account and the default plan catalogue. It is
// idempotent: existing rows are left alone.
func Seed(db *gorm.DB, cfg config.App) error {
	if cfg.AdminLoginEmail != "" && cfg.AdminLoginPassword != "" {
		var count int64
		db.Model(&models.User{}).Where("email = ?", cfg.AdminLoginEmail).Count(&count)
		if count == 0 {
			hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminLoginPassword), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			admin := models.User{
				Name:         "Administrator",
				Email:        cfg.AdminLoginEmail,
				PasswordHash: string(hash),
				Role:         models.RoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
			log.Info().Str("email", admin.Email).Msg("admin account seeded")
		}
	}

	var planCount int64
	db.Model(&models.SubscriptionPlan{}).Count(&planCount)
	if planCount == 0 {
		plans := []models.SubscriptionPlan{
			{
				Name:        "Starter",
				Description: "For home cooks running a second kitchen",
				Price:       499,
				Limits:      models.PlanLimits{MaxKitchens: 2, MaxMenuItemsPerKitchen: 10},
				IsActive:    true,
			},
			{
				Name:        "Pro",
				Description: "Multiple kitchens with featured placement",
				Price:       1499,
				Limits: models.PlanLimits{
					MaxKitchens:            5,
					MaxMenuItemsPerKitchen: 30,
					FeaturedListing:        true,
					Analytics:              true,
				},
				IsActive: true,
			},
			{
				Name:        "Lifetime",
				Description: "One-time purchase, no limits",
				Price:       9999,
				Limits: models.PlanLimits{
					MaxKitchens:            -1,
					MaxMenuItemsPerKitchen: -1,
					FeaturedListing:        true,
					Analytics:              true,
					PrioritySupport:        true,
				},
				IsActive: true,
			},
		}
		if err := db.Create(&plans).Error; err != nil {
			return err
		}
		log.Info().Int("plans", len(plans)).Msg("default subscription plans seeded")
	}
	return nil
}
