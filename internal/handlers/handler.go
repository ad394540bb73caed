package handlers

import (
	"asset-lending/internal/config"
	"asset-lending/internal/service/inventory"
	"asset-lending/internal/service/lending"
	"asset-lending/internal/service/reporting"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db      *gorm.DB
	cfg     *config.Config
	log     *zap.Logger
	assets  *inventory.Service
	borrows *lending.Service
	reports *reporting.Service
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		db:      db,
		cfg:     cfg,
		log:     log.Named("http"),
		assets:  inventory.New(db, log),
		borrows: lending.New(db, log),
		reports: reporting.New(db),
	}
}
