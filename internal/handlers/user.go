package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/quizdeck-dev/quizdeck/internal/apperrors"
	"github.com/quizdeck-dev/quizdeck/internal/models"
	"github.com/quizdeck-dev/quizdeck/internal/permissions"
	"github.com/quizdeck-dev/quizdeck/internal/response"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type EditUserRequest struct {
	NewName     *string `json:"newName"`
	NewEmail    *string `json:"newEmail"`
	NewPassword *string `json:"newPassword"`
}

// UserSummary is the identity slice returned by register, edit and delete.
type UserSummary struct {
	ID    uint   `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) Register(ctx *gin.Context) {
	var req RegisterRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateName(req.Name); err != nil {
		response.Error(ctx, err)
		return
	}
	if err := validateEmail(req.Email); err != nil {
		response.Error(ctx, err)
		return
	}
	if err := validatePassword(req.Password); err != nil {
		response.Error(ctx, err)
		return
	}

	// Check-then-insert: not atomic with the write, the unique indexes on
	// name and email backstop the race.
	if taken, err := h.nameTaken(req.Name, 0); err != nil {
		h.serverError(ctx, "register: name lookup", err)
		return
	} else if taken {
		response.Error(ctx, apperrors.ErrUserExists)
		return
	}

	if taken, err := h.emailTaken(req.Email); err != nil {
		h.serverError(ctx, "register: email lookup", err)
		return
	} else if taken {
		response.Error(ctx, apperrors.ErrEmailTaken)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), h.bcryptCost)
	if err != nil {
		h.serverError(ctx, "register: hash password", err)
		return
	}

	user := models.User{
		Name:        req.Name,
		Email:       req.Email,
		Password:    string(passwordHash),
		Score:       0,
		Permissions: permissions.Default(),
	}

	if err := h.db.Create(&user).Error; err != nil {
		h.serverError(ctx, "register: create user", err)
		return
	}

	response.Created(ctx, "User created successfully", UserSummary{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

func (h *Handler) Login(ctx *gin.Context) {
	var req LoginRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	user, err := h.userByName(req.Name)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		response.Error(ctx, apperrors.ErrInvalidPassword)
		return
	}

	token, err := h.auth.GenerateToken(user.Name, user.Permissions)
	if err != nil {
		h.serverError(ctx, "login: generate token", err)
		return
	}

	response.OK(ctx, "Login successful", gin.H{
		"user": gin.H{
			"_id":         user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"permissions": user.Permissions,
		},
		"accessToken": token,
	})
}

func (h *Handler) ListUsers(ctx *gin.Context) {
	page, limit := parsePagination(ctx.Query("page"), ctx.Query("limit"))

	query := h.db.Model(&models.User{})

	if id := ctx.Query("id"); id != "" {
		query = query.Where("id = ?", id)
	}
	if name := ctx.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	if email := ctx.Query("email"); email != "" {
		query = query.Where("LOWER(email) LIKE ?", "%"+strings.ToLower(email)+"%")
	}

	var users []models.User

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		h.serverError(ctx, "list users", err)
		return
	}

	response.OK(ctx, "Users retrieved", users)
}

func (h *Handler) EditUser(ctx *gin.Context) {
	var req EditUserRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "Invalid request")
		return
	}

	target, err := h.userByID(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	editor, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(editor.Permissions, editor.ID, &target.ID); err != nil {
		response.Error(ctx, err)
		return
	}

	if req.NewName != nil {
		name := strings.TrimSpace(*req.NewName)
		if err := validateName(name); err != nil {
			response.Error(ctx, err)
			return
		}
		taken, err := h.nameTaken(name, target.ID)
		if err != nil {
			h.serverError(ctx, "edit user: name lookup", err)
			return
		}
		if taken {
			response.Error(ctx, apperrors.ErrUserExists)
			return
		}
		target.Name = name
	}

	if req.NewEmail != nil {
		email := strings.ToLower(strings.TrimSpace(*req.NewEmail))
		if err := validateEmail(email); err != nil {
			response.Error(ctx, err)
			return
		}
		taken, err := h.emailTaken(email)
		if err != nil {
			h.serverError(ctx, "edit user: email lookup", err)
			return
		}
		if taken {
			response.Error(ctx, apperrors.ErrEmailTaken)
			return
		}
		target.Email = email
	}

	if req.NewPassword != nil {
		if err := validatePassword(*req.NewPassword); err != nil {
			response.Error(ctx, err)
			return
		}
		passwordHash, err := bcrypt.GenerateFromPassword([]byte(*req.NewPassword), h.bcryptCost)
		if err != nil {
			h.serverError(ctx, "edit user: hash password", err)
			return
		}
		target.Password = string(passwordHash)
	}

	if err := h.db.Save(target).Error; err != nil {
		h.serverError(ctx, "edit user: save", err)
		return
	}

	response.OK(ctx, "User edited successfully", UserSummary{
		ID:    target.ID,
		Name:  target.Name,
		Email: target.Email,
	})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	target, err := h.userByID(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, err)
		return
	}

	actor, err := h.currentUser(ctx)
	if err != nil {
		response.Error(ctx, err)
		return
	}

	if err := permissions.Authorize(actor.Permissions, actor.ID, &target.ID); err != nil {
		response.Error(ctx, err)
		return
	}

	if err := h.db.Delete(target).Error; err != nil {
		h.serverError(ctx, "delete user", err)
		return
	}

	response.OK(ctx, "User deleted successfully", gin.H{"_id": target.ID})
}

func (h *Handler) nameTaken(name string, excludeID uint) (bool, error) {
	var existing models.User
	err := h.db.Where("name = ? AND id != ?", name, excludeID).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (h *Handler) emailTaken(email string) (bool, error) {
	var existing models.User
	err := h.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

func (h *Handler) serverError(ctx *gin.Context, op string, err error) {
	h.log.WithError(err).Error(op)
	response.Fail(ctx, http.StatusInternalServerError, "Internal server error")
}
