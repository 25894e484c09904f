package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/access"
	"github.com/mamadbah2/farmacia/internal/service/session"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

// AvatarAPI uploads a new profile picture for an operator.
type AvatarAPI interface {
	UploadAvatar(ctx context.Context, id string, file farmacia.Upload) (*models.User, error)
}

// AuthHandler exposes login, logout and the current session.
type AuthHandler struct {
	session  *session.Session
	avatars  AvatarAPI
	assetURL string
	logger   *zap.Logger
}

// NewAuthHandler constructs the session endpoints.
func NewAuthHandler(sess *session.Session, avatars AvatarAPI, assetURL string, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{session: sess, avatars: avatars, assetURL: assetURL, logger: logger}
}

type loginBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type sessionView struct {
	session.State
	Navigation []access.NavLink `json:"navigation"`
}

func (h *AuthHandler) view() sessionView {
	state := h.session.State()
	if state.CurrentUser != nil {
		state.CurrentUser.AvatarURL = assetURL(h.assetURL, state.CurrentUser.AvatarURL)
	}
	return sessionView{State: state, Navigation: access.Navigation(state.CurrentUser)}
}

// Login authenticates the operator against the backend.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginBody
	if !bindJSON(c, &body) {
		return
	}

	resp, err := h.session.Login(c.Request.Context(), body.Email, body.Password)
	if err != nil {
		fail(c, h.logger, err, "Falha no login")
		return
	}

	ok(c, http.StatusOK, h.view(), models.Success("Login realizado", "Bem-vindo, "+resp.User.Name+"!"))
}

// Logout clears the session locally.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{
		"redirect": LoginPath,
		"notice":   models.Success("Sessão encerrada", "Até logo!"),
	})
}

// Session reports who is logged in and the menu they may use.
func (h *AuthHandler) Session(c *gin.Context) {
	ok(c, http.StatusOK, h.view(), nil)
}

// Navigation returns the menu of the logged in operator.
func (h *AuthHandler) Navigation(c *gin.Context) {
	ok(c, http.StatusOK, access.Navigation(operator(c)), nil)
}

// UploadAvatar replaces the operator's profile picture.
func (h *AuthHandler) UploadAvatar(c *gin.Context) {
	user := operator(c)

	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Selecione uma imagem.")
		return
	}
	file, err := header.Open()
	if err != nil {
		badRequest(c, "Não foi possível ler a imagem.")
		return
	}
	defer file.Close()

	updated, err := h.avatars.UploadAvatar(c.Request.Context(), user.ID, farmacia.Upload{Name: header.Filename, Reader: file})
	if err != nil {
		fail(c, h.logger, err, "Erro ao atualizar foto")
		return
	}
	if err := h.session.UpdateUser(c.Request.Context(), *updated); err != nil {
		fail(c, h.logger, err, "Erro ao atualizar foto")
		return
	}

	ok(c, http.StatusOK, h.view(), models.Success("Foto atualizada", ""))
}
