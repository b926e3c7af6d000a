package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vietddude/codementor/internal/auth"
	"github.com/vietddude/codementor/internal/core/domain"
	"github.com/vietddude/codementor/internal/infra/storage"
	"github.com/vietddude/codementor/internal/resilience/validate"
)

const defaultStudyTime = 5

type registerRequest struct {
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	ExperienceLevel  string   `json:"experienceLevel"`
	LearningGoal     string   `json:"learningGoal"`
	StudyTimePerWeek int      `json:"studyTimePerWeek"`
	KnownLanguages   []string `json:"knownLanguages"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	res := validate.Validate(map[string]string{
		"name":            req.Name,
		"email":           req.Email,
		"password":        req.Password,
		"experienceLevel": req.ExperienceLevel,
	}, validate.RegisterRules())
	if invalid(c, res) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.internal(c, "register", err)
		return
	}

	study := req.StudyTimePerWeek
	if study <= 0 {
		study = defaultStudyTime
	}
	user := &domain.User{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(req.Name),
		Email:            req.Email,
		PasswordHash:     hash,
		ExperienceLevel:  domain.ParseLevel(req.ExperienceLevel),
		LearningGoal:     req.LearningGoal,
		StudyTimePerWeek: study,
		KnownLanguages:   req.KnownLanguages,
		CreatedAt:        time.Now().UTC(),
	}

	ctx := c.Request.Context()
	if err := s.deps.Users.Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			abort(c, http.StatusConflict, msgUserExists)
			return
		}
		s.internal(c, "register", err)
		return
	}

	s.respondWithToken(c, http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	res := validate.Validate(map[string]string{"email": req.Email, "password": req.Password}, validate.LoginRules())
	if invalid(c, res) {
		return
	}

	user, err := s.deps.Users.GetByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		abort(c, http.StatusBadRequest, msgInvalidCredentials)
		return
	}
	if err != nil {
		s.internal(c, "login", err)
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		abort(c, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	s.respondWithToken(c, http.StatusOK, user)
}

func (s *Server) respondWithToken(c *gin.Context, status int, user *domain.User) {
	token, err := s.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		s.internal(c, "issue_token", err)
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.deps.Users.GetByID(c.Request.Context(), c.GetString(userIDKey))
	if errors.Is(err, storage.ErrNotFound) {
		abort(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		s.internal(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
