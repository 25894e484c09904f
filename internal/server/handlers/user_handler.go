package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

// ListUsers returns every operator account.
func (h *CatalogHandler) ListUsers(c *gin.Context) {
	users, err := h.api.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, h.logger, err, "Erro ao carregar usuários")
		return
	}
	for i := range users {
		users[i].AvatarURL = assetURL(h.assetURL, users[i].AvatarURL)
	}
	ok(c, http.StatusOK, users, nil)
}

// GetUser returns one operator account.
func (h *CatalogHandler) GetUser(c *gin.Context) {
	user, err := h.api.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, h.logger, err, "Usuário não encontrado")
		return
	}
	user.AvatarURL = assetURL(h.assetURL, user.AvatarURL)
	ok(c, http.StatusOK, user, nil)
}

// CreateUser registers an operator from a multipart form: the JSON document
// in "usuario" and an optional picture in "avatar". A password is required.
func (h *CatalogHandler) CreateUser(c *gin.Context) {
	h.saveUser(c, "", http.StatusCreated, "Usuário cadastrado")
}

// UpdateUser replaces an operator account. An empty password keeps the old one.
func (h *CatalogHandler) UpdateUser(c *gin.Context) {
	h.saveUser(c, c.Param("id"), http.StatusOK, "Usuário atualizado")
}

func (h *CatalogHandler) saveUser(c *gin.Context, id string, status int, title string) {
	var req models.UserRequest
	if !bindPart(c, "usuario", &req) {
		return
	}
	if id == "" && req.Password == "" {
		badRequest(c, "O campo password é obrigatório.")
		return
	}

	files, closeFiles, err := formFiles(c, "avatar")
	if err != nil {
		badRequest(c, "Não foi possível ler a imagem.")
		return
	}
	defer closeFiles()
	var avatar *farmacia.Upload
	if len(files) > 0 {
		avatar = &files[0]
	}

	var user *models.User
	if id == "" {
		user, err = h.api.CreateUser(c.Request.Context(), req, avatar)
	} else {
		user, err = h.api.UpdateUser(c.Request.Context(), id, req, avatar)
	}
	if err != nil {
		fail(c, h.logger, err, "Erro ao salvar usuário")
		return
	}
	user.AvatarURL = assetURL(h.assetURL, user.AvatarURL)
	ok(c, status, user, models.Success(title, user.Name))
}

// DeleteUser removes an operator account. Operators cannot delete themselves.
func (h *CatalogHandler) DeleteUser(c *gin.Context) {
	id := c.Param("id")
	if me := operator(c); me != nil && me.ID == id {
		c.JSON(http.StatusConflict, gin.H{"notice": models.Warning("Operação não permitida", "Você não pode excluir o próprio usuário.")})
		return
	}

	resp, err := h.api.DeleteUser(c.Request.Context(), id)
	if err != nil {
		fail(c, h.logger, err, "Erro ao excluir usuário")
		return
	}
	ok(c, http.StatusOK, resp, models.Success("Usuário excluído", resp.Message))
}
