package controller

import (
	"gorm.io/gorm"

	"github.com/sirupsen/logrus"

	"docuhub/utils"
)

type DocumentController struct {
	DB     *gorm.DB
	Store  *utils.DocumentStore
	Logger *logrus.Entry
}

func NewDocumentController(db *gorm.DB) *DocumentController {
	logger := utils.NewLogger("documents")
	return &DocumentController{
		DB:     db,
		Store:  utils.NewDocumentStore(db, logger),
		Logger: logger,
	}
}

// pagination reads skip/limit query params with sane bounds.
func pagination(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return skip, limit
}
