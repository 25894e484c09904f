package farmacia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ListUsers returns every operator account.
func (c *APIClient) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns one operator account.
func (c *APIClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	out := new(models.User)
	if err := c.do(ctx, http.MethodGet, "/usuarios/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateUser registers an operator, optionally with an avatar.
func (c *APIClient) CreateUser(ctx context.Context, req models.UserRequest, avatar *Upload) (*models.User, error) {
	return c.sendUser(ctx, http.MethodPost, "/usuarios", req, avatar)
}

// UpdateUser replaces an operator account.
func (c *APIClient) UpdateUser(ctx context.Context, id string, req models.UserRequest, avatar *Upload) (*models.User, error) {
	return c.sendUser(ctx, http.MethodPut, "/usuarios/"+id, req, avatar)
}

func (c *APIClient) sendUser(ctx context.Context, method, path string, req models.UserRequest, avatar *Upload) (*models.User, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	var files []Upload
	if avatar != nil {
		files = append(files, *avatar)
	}

	out := new(models.User)
	if err := c.multipart(ctx, method, path, map[string]string{"usuario": string(payload)}, "avatar", files, out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser removes an operator account.
func (c *APIClient) DeleteUser(ctx context.Context, id string) (*models.MessageResponse, error) {
	out := new(models.MessageResponse)
	if err := c.do(ctx, http.MethodDelete, "/usuarios/"+id, nil, out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadAvatar replaces the avatar of an operator.
func (c *APIClient) UploadAvatar(ctx context.Context, id string, file Upload) (*models.User, error) {
	out := new(models.User)
	if err := c.multipart(ctx, http.MethodPost, fmt.Sprintf("/usuarios/%s/avatar", id), nil, "file", []Upload{file}, out); err != nil {
		return nil, err
	}
	return out, nil
}
