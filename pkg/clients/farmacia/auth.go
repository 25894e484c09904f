package farmacia

import (
	"context"
	"net/http"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// Login exchanges credentials for a bearer token. The token is not attached
// to this call and a 401 here does not expire the session.
func (c *APIClient) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	result := new(models.LoginResponse)
	if err := c.do(ctx, http.MethodPost, loginPath, req, result); err != nil {
		return nil, err
	}
	return result, nil
}
