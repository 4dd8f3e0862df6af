package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"github.com/quizdeck-dev/quizdeck/internal/permissions"
	"github.com/quizdeck-dev/quizdeck/internal/response"
)

type CreateCollectionRequest struct {
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
	Questions []uint   `json:"questions"`
}

type EditCollectionRequest struct {
	Name      *string   `json:"name"`
	Tags      *[]string `json:"tags"`
	Questions *[]uint   `json:"questions"`
}

func (h *Handler) CreateCollection(ctx *gin.Context) {
	var req CreateCollectionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	if !isValidString(req.Name) {
		response.Error(ctx, apperrors.ErrInvalidName)
		return
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	taken, err := h.collectionNameTaken(req.Name, user.ID, 0)
	if err != nil {
		h.serverError(ctx, "create collection: duplicate lookup", err)
		return
	}
	if taken {
		response.Error(ctx, apperrors.ErrCollectionExists)
		return
	}

	collection := models.Collection{
		Name:    req.Name,
		Tags:    req.Tags,
		OwnerID: &user.ID,
	}

	if err := h.db.Create(&collection).Error; err != nil {
		h.serverError(ctx, "create collection", err)
		return
	}

	if err := h.replaceQuestions(collection.ID, req.Questions); err != nil {
		h.serverError(ctx, "create collection: memberships", err)
		return
	}

	populated, err := h.collectionByID(collection.ID)
	if err != nil {
		h.serverError(ctx, "create collection: reload", err)
		return
	}

	response.Created(ctx, "Collection created", populated)
}

func (h *Handler) EditCollection(ctx *gin.Context) {
	var req EditCollectionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	collection, err := h.collectionByParam(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(user.Permissions, user.ID, collection.OwnerID); err != nil {
		response.Error(ctx, err)
		return
	}

	if req.Name != nil {
		if !isValidString(*req.Name) {
			response.Error(ctx, apperrors.ErrInvalidName)
			return
		}
		// Name must stay unique among the owner's collections, not the
		// editor's: an admin editing someone else's collection competes
		// with that owner's names.
		var ownerID uint
		if collection.OwnerID != nil {
			ownerID = *collection.OwnerID
		}
		taken, err := h.collectionNameTaken(*req.Name, ownerID, collection.ID)
		if err != nil {
			h.serverError(ctx, "edit collection: duplicate lookup", err)
			return
		}
		if taken {
			response.Error(ctx, apperrors.ErrCollectionExists)
			return
		}
		collection.Name = *req.Name
	}

	if req.Tags != nil {
		collection.Tags = *req.Tags
	}

	collection.Questions = nil
	if err := h.db.Save(collection).Error; err != nil {
		h.serverError(ctx, "edit collection: save", err)
		return
	}

	if req.Questions != nil {
		if err := h.replaceQuestions(collection.ID, *req.Questions); err != nil {
			h.serverError(ctx, "edit collection: memberships", err)
			return
		}
	}

	populated, err := h.collectionByID(collection.ID)
	if err != nil {
		h.serverError(ctx, "edit collection: reload", err)
		return
	}

	response.OK(ctx, "Collection edited successfully", populated)
}

func (h *Handler) DeleteCollection(ctx *gin.Context) {
	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	collection, err := h.collectionByParam(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(user.Permissions, user.ID, collection.OwnerID); err != nil {
		response.Error(ctx, err)
		return
	}

	if err := h.db.Delete(collection).Error; err != nil {
		h.serverError(ctx, "delete collection", err)
		return
	}

	response.OK(ctx, "Collection deleted successfully", collection)
}

func (h *Handler) ListCollections(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := h.db.Model(&models.Collection{})

	if id := ctx.Query("id"); id != "" {
		query = query.Where("id = ?", id)
	}
	if name := ctx.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if owner := ctx.Query("owner"); owner != "" {
		query = query.Where("owner_id = ?", owner)
	}
	if tags := ctx.QueryArray("tags"); len(tags) > 0 {
		query = query.Where(tagsOverlap(h.db, tags))
	}
	if questionIDs := ctx.QueryArray("questions"); len(questionIDs) > 0 {
		// Membership filter: the collection must contain every given
		// question.
		sub := h.db.Model(&models.CollectionQuestion{}).
			Select("collection_id").
			Where("question_id IN ?", questionIDs).
			Group("collection_id").
			Having("COUNT(DISTINCT question_id) = ?", len(questionIDs))
		query = query.Where("id IN (?)", sub)
	}

	var collections []models.Collection

	err := query.
		Preload("Questions").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&collections).Error
	if err != nil {
		h.serverError(ctx, "list collections", err)
		return
	}

	response.OK(ctx, "Quizz Collections", collections)
}

func (h *Handler) collectionByParam(id string) (*models.Collection, error) {
	var collection models.Collection
	if err := h.db.Where("id = ?", id).First(&collection).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCollectionNotFound
		}
		return nil, err
	}
	return &collection, nil
}

func (h *Handler) collectionByID(id uint) (*models.Collection, error) {
	var collection models.Collection
	err := h.db.Preload("Questions").Where("id = ?", id).First(&collection).Error
	if err != nil {
		return nil, err
	}
	if collection.Questions == nil {
		collection.Questions = []models.Question{}
	}
	return &collection, nil
}

func (h *Handler) collectionNameTaken(name string, ownerID uint, excludeID uint) (bool, error) {
	var existing models.Collection
	err := h.db.Where("name = ? AND owner_id = ? AND id != ?", name, ownerID, excludeID).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// replaceQuestions rewrites the membership rows for a collection. The ids
// are written as-is, without checking they resolve: membership may dangle,
// and population silently drops entries that no longer exist.
func (h *Handler) replaceQuestions(collectionID uint, questionIDs []uint) error {
	err := h.db.Where("collection_id = ?", collectionID).
		Delete(&models.CollectionQuestion{}).Error
	if err != nil {
		return err
	}

	if len(questionIDs) == 0 {
		return nil
	}

	rows := make([]models.CollectionQuestion, 0, len(questionIDs))
	for _, id := range questionIDs {
		rows = append(rows, models.CollectionQuestion{
			CollectionID: collectionID,
			QuestionID:   id,
		})
	}

	return h.db.Create(&rows).Error
}
