package farmacia

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/config"
)

const loginPath = "/auth/login"

// UserAgent identifies the console to the backend. It is also one of the
// inputs of the session snapshot key.
const UserAgent = "farmacia-console/1.0"

// Authenticator supplies the bearer token and is told when the backend
// rejects it.
type Authenticator interface {
	Token() string
	Expire(reason string)
}

// APIClient is a resty-backed client for the pharmacy backend.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger

	mu   sync.RWMutex
	auth Authenticator
}

// NewClient builds a backend client using the provided configuration values.
func NewClient(cfg config.APIConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &APIClient{logger: logger}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", UserAgent).
		SetTimeout(cfg.Timeout)

	restyClient.OnBeforeRequest(c.attachHeaders)
	restyClient.OnAfterResponse(c.watchUnauthorized)

	c.httpClient = restyClient
	return c
}

// Bind sets the authenticator consulted for tokens and notified on 401s.
func (c *APIClient) Bind(auth Authenticator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = auth
}

func (c *APIClient) authenticator() Authenticator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.auth
}

func (c *APIClient) attachHeaders(_ *resty.Client, r *resty.Request) error {
	r.SetHeader("X-Request-ID", uuid.NewString())

	if isLoginCall(r.URL) {
		return nil
	}
	if auth := c.authenticator(); auth != nil {
		if token := auth.Token(); token != "" {
			r.SetAuthToken(token)
		}
	}
	return nil
}

func (c *APIClient) watchUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	path := resp.Request.URL
	if isLoginCall(path) {
		c.logger.Debug("login rejected by backend")
		return nil
	}

	c.logger.Warn("backend rejected session",
		zap.String("method", resp.Request.Method),
		zap.String("path", path))

	if auth := c.authenticator(); auth != nil {
		auth.Expire(fmt.Sprintf("401 on %s %s", resp.Request.Method, path))
	}
	return nil
}

func isLoginCall(url string) bool {
	return strings.Contains(url, loginPath)
}

// errorBody captures the error/message fields the backend puts in rejections.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, result any) error {
	errBody := new(errorBody)

	req := c.httpClient.R().
		SetContext(ctx).
		SetError(errBody)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	return checkResponse(resp, errBody)
}

func checkResponse(resp *resty.Response, errBody *errorBody) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := ""
	if errBody != nil {
		message = errBody.Error
		if message == "" {
			message = errBody.Message
		}
	}

	return &APIError{
		Status:  resp.StatusCode(),
		Method:  resp.Request.Method,
		Path:    resp.Request.URL,
		Message: message,
	}
}
