package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
	"github.com/quizdeck-dev/quizdeck/internal/auth"
	"github.com/quizdeck-dev/quizdeck/internal/middleware"
	"github.com/quizdeck-dev/quizdeck/internal/models"
)

type Handler struct {
	db         *gorm.DB
	auth       *auth.Service
	log        *logrus.Logger
	bcryptCost int
}

func New(db *gorm.DB, authService *auth.Service, log *logrus.Logger, bcryptCost int) *Handler {
	return &Handler{
		db:         db,
		auth:       authService,
		log:        log,
		bcryptCost: bcryptCost,
	}
}

// currentUser resolves the acting user from the verified token claims.
// The record is re-read so the ownership check runs against current
// permissions, not the snapshot baked into the token.
func (h *Handler) currentUser(ctx *gin.Context) (*models.User, error) {
	claims, err := middleware.CurrentClaims(ctx)
	if err != nil {
		return nil, apperrors.ErrUserNotFound
	}
	return h.userByName(claims.Name)
}

func (h *Handler) userByName(name string) (*models.User, error) {
	var user models.User
	if err := h.db.Where("name = ?", name).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (h *Handler) userByID(id string) (*models.User, error) {
	var user models.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
