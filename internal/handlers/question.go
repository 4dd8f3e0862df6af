package handlers

import (
	"encoding/json"
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

// CreateQuestionRequest keeps options and tags raw so a wrong-typed value
// surfaces as its own validation error instead of a generic bind failure.
type CreateQuestionRequest struct {
	QuestionText string          `json:"question_text"`
	Options      json.RawMessage `json:"options"`
	Answer       string          `json:"answer"`
	Tags         json.RawMessage `json:"tags"`
}

type EditQuestionRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func (h *Handler) CreateQuestion(ctx *gin.Context) {
	var req CreateQuestionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	if !isValidString(req.QuestionText) {
		response.Error(ctx, apperrors.ErrInvalidString)
		return
	}

	if !isValidString(req.Answer) {
		response.Error(ctx, apperrors.ErrNeedAnswer)
		return
	}

	options, err := decodeStringList(req.Options)
	if err != nil || len(options) < 2 {
		response.Error(ctx, apperrors.ErrInvalidOptionsArray)
		return
	}

	tags := models.StringArray{}
	if len(req.Tags) > 0 {
		tags, err = decodeStringList(req.Tags)
		if err != nil {
			response.Error(ctx, apperrors.ErrInvalidTagsArray)
			return
		}
	}

	if !options.Contains(req.Answer) {
		response.Error(ctx, apperrors.ErrOptionsMustIncludeAnswer)
		return
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	var existing models.Question
	err = h.db.Where("question = ? AND owner_id = ?", req.QuestionText, user.ID).First(&existing).Error
	if err == nil {
		response.Error(ctx, apperrors.ErrQuestionExists)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		h.serverError(ctx, "create question: duplicate lookup", err)
		return
	}

	question := models.Question{
		Question: req.QuestionText,
		Options:  options,
		Answer:   req.Answer,
		Tags:     tags,
		OwnerID:  &user.ID,
	}

	if err := h.db.Create(&question).Error; err != nil {
		h.serverError(ctx, "create question", err)
		return
	}

	response.Created(ctx, "Question created successfully", question)
}

func (h *Handler) EditQuestion(ctx *gin.Context) {
	var req EditQuestionRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	// Only these fields are editable post-creation.
	if req.Field != "question" && req.Field != "options" && req.Field != "answer" {
		response.Error(ctx, apperrors.ErrFieldNotEditable)
		return
	}

	question, err := h.questionByID(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(user.Permissions, user.ID, question.OwnerID); err != nil {
		response.Error(ctx, err)
		return
	}

	switch req.Field {
	case "question":
		var text string
		if err := json.Unmarshal(req.Value, &text); err != nil || !isValidString(text) {
			response.Error(ctx, apperrors.ErrInvalidString)
			return
		}
		question.Question = text

	case "options":
		options, err := decodeStringList(req.Value)
		if err != nil || len(options) < 2 {
			response.Error(ctx, apperrors.ErrInvalidOptionsArray)
			return
		}
		question.Options = options

	case "answer":
		var answer string
		if err := json.Unmarshal(req.Value, &answer); err != nil {
			response.Error(ctx, apperrors.ErrInvalidString)
			return
		}
		if answer != "" && !question.Options.Contains(answer) {
			response.Error(ctx, apperrors.ErrOptionsMustIncludeAnswer)
			return
		}
		question.Answer = answer
	}

	if err := h.db.Save(question).Error; err != nil {
		h.serverError(ctx, "edit question: save", err)
		return
	}

	response.OK(ctx, "Question edited successfully", question)
}

func (h *Handler) DeleteQuestion(ctx *gin.Context) {
	question, err := h.questionByID(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	user, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(user.Permissions, user.ID, question.OwnerID); err != nil {
		response.Error(ctx, err)
		return
	}

	if err := h.db.Delete(question).Error; err != nil {
		h.serverError(ctx, "delete question", err)
		return
	}

	response.OK(ctx, "Question deleted successfully", question)
}

func (h *Handler) ListQuestions(ctx *gin.Context) {
	// An id filter short-circuits to a single object.
	if id := ctx.Query("id"); id != "" {
		question, err := h.questionByID(id)
		if err != nil {
			response.Error(ctx, err)
			return
		}
		response.OK(ctx, "Question", question)
		return
	}

	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := h.db.Model(&models.Question{})

	if ownername := ctx.Query("ownername"); ownername != "" {
		owner, err := h.userByName(ownername)
		if err != nil {
			response.Error(ctx, err)
			return
		}
		query = query.Where("owner_id = ?", owner.ID)
	}

	if tags := ctx.QueryArray("tags"); len(tags) > 0 {
		query = query.Where(tagsOverlap(h.db, tags))
	}

	var questions []models.Question

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&questions).Error
	if err != nil {
		h.serverError(ctx, "list questions", err)
		return
	}

	response.OK(ctx, "Questions", questions)
}

func (h *Handler) questionByID(id string) (*models.Question, error) {
	var question models.Question
	if err := h.db.Where("id = ?", id).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrQuestionNotFound
		}
		return nil, err
	}
	return &question, nil
}

func decodeStringList(raw json.RawMessage) (models.StringArray, error) {
	var list models.StringArray
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// tagsOverlap matches rows whose JSON-encoded tag list contains any of the
// given tags. The column is serialized JSON, so a quoted substring match is
// exact per element and portable across dialects.
func tagsOverlap(conn *gorm.DB, tags []string) *gorm.DB {
	cond := conn
	for i, tag := range tags {
		pattern := "%" + strings.ReplaceAll(`"`+tag+`"`, "%", "") + "%"
		if i == 0 {
			cond = conn.Where("tags LIKE ?", pattern)
		} else {
			cond = cond.Or("tags LIKE ?", pattern)
		}
	}
	return cond
}
