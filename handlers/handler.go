package handlers

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"tiffin-market-api/config"
	"tiffin-market-api/mailer"
)

// Handler bundles the injected dependencies every route needs: the database
// handle, the mailer and the runtime configuration.
type Handler struct {
	DB   *gorm.DB
	Mail mailer.Mailer
	Cfg  config.App
}

func New(db *gorm.DB, mail mailer.Mailer, cfg config.App) *Handler {
	return &Handler{DB: db, Mail: mail, Cfg: cfg}
}

// notify sends a best-effort transactional email. Failures are logged and
// never affect the request outcome.
func (h *Handler) notify(to, subject, body string) {
	if err := h.Mail.Send(to, subject, body); err != nil {
		log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("notification failed")
	}
}
