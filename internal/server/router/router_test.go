package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmacia/internal/config"
	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/repository/memory"
	"github.com/mamadbah2/farmacia/internal/server/handlers"
	"github.com/mamadbah2/farmacia/internal/service/alerts"
	"github.com/mamadbah2/farmacia/internal/service/audit"
	"github.com/mamadbah2/farmacia/internal/service/sales"
	"github.com/mamadbah2/farmacia/internal/service/session"
	"github.com/mamadbah2/farmacia/internal/service/stock"
	"github.com/mamadbah2/farmacia/pkg/clients/farmacia"
)

// backend is a minimal stand-in for the pharmacy REST API.
type backend struct {
	mu            sync.Mutex
	reject        bool
	rejectCatalog bool
	sales         []models.SaleRequest
	statusHit     int
	calls         []string
	customer      models.CustomerRequest
	parts         map[string]string
	files         []string
}

func (b *backend) serveHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	b.calls = append(b.calls, r.Method+" "+path)
	if path != "/auth/login" && (b.reject || r.Header.Get("Authorization") != "Bearer tok") {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expirado"})
		return
	}
	if b.rejectCatalog && path == "/medicamentos/ativos" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "token expirado"})
		return
	}

	switch {
	case path == "/auth/login":
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		role := models.RoleSeller
		if strings.HasPrefix(req.Email, "admin") {
			role = models.RoleAdmin
		}
		writeJSON(w, http.StatusOK, models.LoginResponse{
			Token: "tok",
			Type:  "Bearer",
			User:  models.User{ID: "u1", Name: "Ana", Email: req.Email, Role: role},
		})
	case path == "/clientes" && r.Method == http.MethodPost,
		path == "/clientes/c1" && r.Method == http.MethodPut:
		_ = json.NewDecoder(r.Body).Decode(&b.customer)
		writeJSON(w, http.StatusOK, models.Customer{ID: "c1", Name: b.customer.Name, CPF: b.customer.CPF})
	case path == "/clientes":
		writeJSON(w, http.StatusOK, []models.Customer{{ID: "c1", Name: "Carlos", CPF: "123.456.789-09"}})
	case path == "/clientes/c1" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, models.Customer{ID: "c1", Name: "Carlos", CPF: "123.456.789-09"})
	case path == "/medicamentos" && r.Method == http.MethodPost,
		strings.HasPrefix(path, "/medicamentos/") && r.Method == http.MethodPut,
		strings.HasSuffix(path, "/imagens") && r.Method == http.MethodPost:
		b.readForm(r)
		var req models.MedicineRequest
		_ = json.Unmarshal([]byte(b.parts["medicamento"]), &req)
		m := models.Medicine{ID: "m9", Name: req.Name, Price: req.Price}
		for _, name := range b.files {
			m.Images = append(m.Images, "/uploads/"+name)
		}
		writeJSON(w, http.StatusOK, m)
	case path == "/usuarios" && r.Method == http.MethodPost,
		strings.HasPrefix(path, "/usuarios/") && r.Method == http.MethodPut:
		b.readForm(r)
		var req models.UserRequest
		_ = json.Unmarshal([]byte(b.parts["usuario"]), &req)
		u := models.User{ID: "u9", Name: req.Name, Email: req.Email, Role: req.Role}
		if len(b.files) > 0 {
			u.AvatarURL = "/uploads/" + b.files[0]
		}
		writeJSON(w, http.StatusOK, u)
	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/imagens"):
		writeJSON(w, http.StatusOK, models.Medicine{ID: "m1", Name: "Dipirona"})
	case r.Method == http.MethodDelete:
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Removido com sucesso"})
	case path == "/vendas/v1/cancelar":
		writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Venda v1 cancelada"})
	case path == "/vendas/cliente/c1":
		writeJSON(w, http.StatusOK, []models.Sale{{ID: "v1", CustomerID: "c1", Status: models.SaleCompleted, Total: 11}})
	case path == "/alertas/estoque-baixo", path == "/alertas/nao-lidos":
		writeJSON(w, http.StatusOK, []models.Alert{{ID: "a1", Type: models.AlertLowStock, MedicineName: "Dipirona"}})
	case path == "/alertas/validade-proxima", path == "/alertas/validade-vencida":
		writeJSON(w, http.StatusOK, []models.Alert{})
	case r.Method == http.MethodGet && (path == "/medicamentos/ativos" || path == "/medicamentos"):
		writeJSON(w, http.StatusOK, []models.Medicine{
			{ID: "m1", Name: "Dipirona", Price: 5.5, StockQuantity: 2, Active: true, Expiry: "2099-12-31", Images: []string{"/uploads/m1.png"}},
			{ID: "m2", Name: "Amoxicilina", Price: 20, StockQuantity: 5, Active: true, Expiry: "01/01/2000"},
		})
	case path == "/vendas" && r.Method == http.MethodPost:
		var req models.SaleRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		b.sales = append(b.sales, req)
		writeJSON(w, http.StatusCreated, models.Sale{ID: "v1", CustomerID: req.CustomerID, Status: models.SaleCompleted, Total: 11})
	case strings.HasSuffix(path, "/status"):
		b.statusHit++
		writeJSON(w, http.StatusOK, models.Medicine{ID: "m1", Name: "Dipirona", Active: false})
	case path == "/usuarios":
		writeJSON(w, http.StatusOK, []models.User{{ID: "u1", Name: "Ana", Role: models.RoleAdmin}})
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "não encontrado"})
	}
}

func (b *backend) readForm(r *http.Request) {
	b.parts = map[string]string{}
	b.files = nil
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		return
	}
	for name, values := range r.MultipartForm.Value {
		b.parts[name] = values[0]
	}
	for _, headers := range r.MultipartForm.File {
		for _, h := range headers {
			b.files = append(b.files, h.Filename)
		}
	}
}

func (b *backend) called(call string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, c := range b.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (b *backend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func (b *backend) lastCustomer() models.CustomerRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.customer
}

func (b *backend) form() (map[string]string, []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parts, append([]string(nil), b.files...)
}

func (b *backend) submitted() []models.SaleRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.SaleRequest(nil), b.sales...)
}

func (b *backend) statusCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusHit
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

type console struct {
	t       *testing.T
	handler http.Handler
	backend *backend
	session *session.Session
}

func newConsole(t *testing.T) *console {
	t.Helper()

	be := &backend{}
	srv := httptest.NewServer(http.HandlerFunc(be.serveHTTP))
	t.Cleanup(srv.Close)

	client := farmacia.NewClient(config.APIConfig{BaseURL: srv.URL + "/api", AssetURL: "http://assets.local", Timeout: 5 * time.Second}, nil)
	obf, err := session.NewObfuscator(session.Fingerprint{UserAgent: farmacia.UserAgent, Language: "pt-BR", Platform: "linux/amd64"})
	require.NoError(t, err)
	sess := session.New(client, memory.NewStore(), obf, nil)
	client.Bind(sess)

	workflow := sales.NewWorkflow(client, 10*time.Millisecond, nil)
	sess.OnLogout(workflow.Reset)
	alertSvc := alerts.NewService(client, nil, "", nil)
	sess.OnLogout(alertSvc.Reset)

	h := Handlers{
		Auth:    handlers.NewAuthHandler(sess, client, "http://assets.local", nil),
		Sale:    handlers.NewSaleHandler(workflow, "http://assets.local", nil),
		Catalog: handlers.NewCatalogHandler(client, "http://assets.local", nil),
		Stock:   handlers.NewStockHandler(stock.NewService(client, nil), nil),
		Alerts:  handlers.NewAlertHandler(alertSvc, nil),
		Logs:    handlers.NewLogHandler(audit.NewService(client, sess, nil, "", t.TempDir(), nil), nil),
	}
	return &console{t: t, handler: New(h, sess, nil), backend: be, session: sess}
}

type reply struct {
	Status   int             `json:"-"`
	Data     json.RawMessage `json:"data"`
	Notice   *models.Notice  `json:"notice"`
	Redirect string          `json:"redirect"`
}

func (c *console) call(method, path string, body any) reply {
	c.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// upload sends each field as a JSON document and each file under fileField.
func (c *console) upload(method, path string, fields map[string]any, fileField string, files ...string) reply {
	c.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, v := range fields {
		raw, err := json.Marshal(v)
		require.NoError(c.t, err)
		require.NoError(c.t, mw.WriteField(name, string(raw)))
	}
	for _, name := range files {
		part, err := mw.CreateFormFile(fileField, name)
		require.NoError(c.t, err)
		_, err = part.Write([]byte("\x89PNG"))
		require.NoError(c.t, err)
	}
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func (c *console) do(req *http.Request) reply {
	c.t.Helper()

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	var out reply
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	out.Status = rec.Code
	return out
}

func (c *console) login(email string) {
	c.t.Helper()
	res := c.call(http.MethodPost, "/auth/login", map[string]string{"email": email, "password": "secret"})
	require.Equal(c.t, http.StatusOK, res.Status)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealthz(t *testing.T) {
	c := newConsole(t)
	res := c.call(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, res.Status)
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	c := newConsole(t)

	for _, path := range []string{"/sale", "/nav", "/medicines", "/alerts"} {
		res := c.call(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, res.Status, path)
		assert.Equal(t, handlers.LoginPath, res.Redirect, path)
	}
}

func TestLoginWithWrongPassword(t *testing.T) {
	c := newConsole(t)

	res := c.call(http.MethodPost, "/auth/login", map[string]string{"email": "ana@farmacia.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	require.NotNil(t, res.Notice)
	assert.Equal(t, "Falha no login", res.Notice.Title)
	assert.Empty(t, res.Redirect)
	assert.False(t, c.session.IsAuthenticated())
}

func TestLoginRequiresCredentials(t *testing.T) {
	c := newConsole(t)
	res := c.call(http.MethodPost, "/auth/login", map[string]string{"email": " "})
	assert.Equal(t, http.StatusBadRequest, res.Status)
}

func TestSessionReportsNavigation(t *testing.T) {
	c := newConsole(t)
	c.login("admin@farmacia.com")

	res := c.call(http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, res.Status)

	view := decode[struct {
		IsAuthenticated bool             `json:"isAuthenticated"`
		Navigation      []map[string]any `json:"navigation"`
	}](t, res.Data)
	assert.True(t, view.IsAuthenticated)

	var paths []string
	for _, link := range view.Navigation {
		paths = append(paths, link["path"].(string))
	}
	assert.Contains(t, paths, "/logs")
	assert.Contains(t, paths, "/usuarios")
}

func TestSaleFlow(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "12345678909"})
	require.Equal(t, http.StatusOK, res.Status)
	snap := decode[sales.Snapshot](t, res.Data)
	assert.Equal(t, sales.StateCustomerIdentified, snap.State)
	require.Len(t, snap.Results, 1)
	assert.Equal(t, "m1", snap.Results[0].ID)
	assert.Equal(t, []string{"http://assets.local/uploads/m1.png"}, snap.Results[0].Images)

	res = c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "98765432100"})
	assert.Equal(t, http.StatusConflict, res.Status)

	for i := 0; i < 2; i++ {
		res = c.call(http.MethodPost, "/sale/cart", map[string]string{"medicineId": "m1"})
		require.Equal(t, http.StatusOK, res.Status)
		assert.Nil(t, res.Notice)
	}

	res = c.call(http.MethodPost, "/sale/cart", map[string]string{"medicineId": "m1"})
	require.Equal(t, http.StatusOK, res.Status)
	require.NotNil(t, res.Notice)
	assert.Equal(t, models.NoticeWarning, res.Notice.Level)
	snap = decode[sales.Snapshot](t, res.Data)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, 2, snap.Items[0].QuantityInCart)
	assert.Equal(t, 11.0, snap.Total)

	res = c.call(http.MethodPost, "/sale/cart", map[string]string{"medicineId": "m2"})
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = c.call(http.MethodPost, "/sale/finalize", nil)
	require.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "Venda Finalizada!", res.Notice.Title)

	submitted := c.backend.submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, models.SaleRequest{CustomerID: "c1", Items: []models.SaleItem{{MedicineID: "m1", Quantity: 2}}}, submitted[0])

	res = c.call(http.MethodGet, "/sale", nil)
	snap = decode[sales.Snapshot](t, res.Data)
	assert.Equal(t, sales.StateNoCustomer, snap.State)
	assert.Empty(t, snap.Items)
}

func TestInvalidCPFAndEmptyCart(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "123"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "CPF Inválido", res.Notice.Title)

	res = c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "111.111.111-11"})
	assert.Equal(t, http.StatusNotFound, res.Status)

	res = c.call(http.MethodPost, "/sale/finalize", nil)
	assert.Equal(t, http.StatusConflict, res.Status)

	c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "123.456.789-09"})
	res = c.call(http.MethodPost, "/sale/finalize", nil)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Carrinho Vazio", res.Notice.Title)
	assert.Empty(t, c.backend.submitted())
}

func TestSellerCannotManageMedicinesOrUsers(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodPatch, "/medicines/m1/status", map[string]bool{"active": false})
	assert.Equal(t, http.StatusForbidden, res.Status)
	res = c.call(http.MethodGet, "/users", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
	res = c.call(http.MethodGet, "/logs", nil)
	assert.Equal(t, http.StatusForbidden, res.Status)
	assert.Zero(t, c.backend.statusCalls())
}

func TestAdminTogglesMedicineStatus(t *testing.T) {
	c := newConsole(t)
	c.login("admin@farmacia.com")

	res := c.call(http.MethodPatch, "/medicines/m1/status", map[string]bool{"active": false})
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Medicamento desativado", res.Notice.Title)
	assert.Equal(t, 1, c.backend.statusCalls())
}

func TestBackendUnauthorizedEndsSession(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")
	c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "123.456.789-09"})

	c.backend.mu.Lock()
	c.backend.reject = true
	c.backend.mu.Unlock()

	res := c.call(http.MethodGet, "/medicines", nil)
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, handlers.LoginPath, res.Redirect)
	assert.False(t, c.session.IsAuthenticated())

	res = c.call(http.MethodGet, "/auth/session", nil)
	assert.Contains(t, string(res.Data), `"isAuthenticated":false`)
}

func TestLogoutClearsSale(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")
	c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "123.456.789-09"})

	res := c.call(http.MethodPost, "/auth/logout", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, handlers.LoginPath, res.Redirect)

	c.login("ana@farmacia.com")
	res = c.call(http.MethodGet, "/sale", nil)
	snap := decode[sales.Snapshot](t, res.Data)
	assert.Equal(t, sales.StateNoCustomer, snap.State)
}

func TestStockValidation(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodPost, "/stock/entry", map[string]any{"medicamentoId": "m1", "quantidade": 0})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Formulário Inválido", res.Notice.Title)
}

func TestCatalogUnauthorizedDuringIdentifyRedirects(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	c.backend.mu.Lock()
	c.backend.rejectCatalog = true
	c.backend.mu.Unlock()

	res := c.call(http.MethodPost, "/sale/customer", map[string]string{"cpf": "123.456.789-09"})
	assert.Equal(t, http.StatusUnauthorized, res.Status)
	assert.Equal(t, handlers.LoginPath, res.Redirect)
	assert.False(t, c.session.IsAuthenticated())

	c.backend.mu.Lock()
	c.backend.rejectCatalog = false
	c.backend.mu.Unlock()

	c.login("ana@farmacia.com")
	res = c.call(http.MethodGet, "/sale", nil)
	snap := decode[sales.Snapshot](t, res.Data)
	assert.Equal(t, sales.StateNoCustomer, snap.State)
}

func TestRoleGatesStopBeforeTheBackend(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")
	before := c.backend.callCount()

	forbidden := []struct{ method, path string }{
		{http.MethodPost, "/medicines"},
		{http.MethodPut, "/medicines/m1"},
		{http.MethodPost, "/medicines/m1/images"},
		{http.MethodDelete, "/medicines/m1/images"},
		{http.MethodDelete, "/medicines/m1"},
		{http.MethodGet, "/users/u1"},
		{http.MethodPost, "/users"},
		{http.MethodDelete, "/users/u2"},
		{http.MethodPost, "/logs/export"},
	}
	for _, tc := range forbidden {
		res := c.call(tc.method, tc.path, nil)
		assert.Equal(t, http.StatusForbidden, res.Status, tc.method+" "+tc.path)
		require.NotNil(t, res.Notice, tc.path)
		assert.Equal(t, "Acesso negado", res.Notice.Title)
	}
	assert.Equal(t, before, c.backend.callCount())

	for _, path := range []string{"/customers/c1", "/customers/c1/sales", "/alerts", "/sale"} {
		res := c.call(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, res.Status, path)
	}
}

func TestBindingErrorsNameTheField(t *testing.T) {
	c := newConsole(t)

	res := c.call(http.MethodPost, "/auth/login", map[string]string{"email": "ana", "password": "secret"})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Informe um e-mail válido.", res.Notice.Text)

	c.login("ana@farmacia.com")

	res = c.call(http.MethodPost, "/sale/cart", map[string]string{"medicineId": "  "})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo medicineId é obrigatório.", res.Notice.Text)

	res = c.call(http.MethodPut, "/sale/cart/m1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo quantity é obrigatório.", res.Notice.Text)

	res = c.call(http.MethodPost, "/categories", map[string]string{"nome": " "})
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Formulário Inválido", res.Notice.Title)
	assert.Equal(t, "O campo nome é obrigatório.", res.Notice.Text)
}

func TestCustomerFormsMaskCPF(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	form := map[string]string{"nome": "Beatriz", "cpf": "1234567890", "email": "bia@mail.com", "dataNascimento": "1990-04-02"}
	res := c.call(http.MethodPost, "/customers", form)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Informe o CPF no formato 000.000.000-00.", res.Notice.Text)

	form["cpf"] = "98765432100"
	form["email"] = "bia"
	res = c.call(http.MethodPost, "/customers", form)
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "Informe um e-mail válido.", res.Notice.Text)

	form["email"] = "bia@mail.com"
	res = c.call(http.MethodPost, "/customers", form)
	require.Equal(t, http.StatusCreated, res.Status)
	assert.Equal(t, "Cliente cadastrado", res.Notice.Title)
	assert.Equal(t, "987.654.321-00", c.backend.lastCustomer().CPF)

	form["nome"] = "Beatriz Souza"
	res = c.call(http.MethodPut, "/customers/c1", form)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Beatriz Souza", c.backend.lastCustomer().Name)

	res = c.call(http.MethodDelete, "/customers/c1", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.True(t, c.backend.called("DELETE /clientes/c1"))
}

func TestAdminSavesMedicineWithImages(t *testing.T) {
	c := newConsole(t)
	c.login("admin@farmacia.com")

	res := c.upload(http.MethodPost, "/medicines", nil, "files", "a.png")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo medicamento é obrigatório.", res.Notice.Text)

	res = c.upload(http.MethodPost, "/medicines", map[string]any{"medicamento": map[string]any{"nome": "Paracetamol", "preco": 0}}, "files")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo preco deve ser maior que 0.", res.Notice.Text)

	medicine := map[string]any{"nome": "Paracetamol", "preco": 3.5, "quantidadeEstoque": 10}
	res = c.upload(http.MethodPost, "/medicines", map[string]any{"medicamento": medicine}, "files", "a.png", "b.png")
	require.Equal(t, http.StatusCreated, res.Status)
	m := decode[models.Medicine](t, res.Data)
	assert.Equal(t, "Paracetamol", m.Name)
	assert.ElementsMatch(t, []string{"http://assets.local/uploads/a.png", "http://assets.local/uploads/b.png"}, m.Images)
	parts, files := c.backend.form()
	assert.JSONEq(t, `{"nome":"Paracetamol","preco":3.5,"quantidadeEstoque":10}`, parts["medicamento"])
	assert.ElementsMatch(t, []string{"a.png", "b.png"}, files)

	res = c.upload(http.MethodPut, "/medicines/m9", map[string]any{"medicamento": medicine}, "files")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Medicamento atualizado", res.Notice.Title)

	res = c.upload(http.MethodPost, "/medicines/m9/images", nil, "files")
	assert.Equal(t, http.StatusBadRequest, res.Status)

	res = c.upload(http.MethodPost, "/medicines/m9/images", nil, "files", "c.png")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, []string{"http://assets.local/uploads/c.png"}, decode[models.Medicine](t, res.Data).Images)

	res = c.call(http.MethodDelete, "/medicines/m9/images", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.True(t, c.backend.called("DELETE /medicamentos/m9/imagens"))
}

func TestAdminManagesUsers(t *testing.T) {
	c := newConsole(t)
	c.login("admin@farmacia.com")

	user := map[string]any{"nome": "Bruno", "email": "bruno@farmacia.com", "role": "VENDEDOR"}
	res := c.upload(http.MethodPost, "/users", map[string]any{"usuario": user}, "avatar")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo password é obrigatório.", res.Notice.Text)

	res = c.upload(http.MethodPost, "/users", map[string]any{"usuario": map[string]any{"nome": "Bruno", "email": "bruno@farmacia.com", "role": "GERENTE", "password": "segredo1"}}, "avatar")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo role deve ser um de: ADMIN, VENDEDOR.", res.Notice.Text)

	user["password"] = "curta"
	res = c.upload(http.MethodPost, "/users", map[string]any{"usuario": user}, "avatar")
	assert.Equal(t, http.StatusBadRequest, res.Status)
	assert.Equal(t, "O campo password deve ter ao menos 6 caracteres.", res.Notice.Text)

	user["password"] = "segredo1"
	res = c.upload(http.MethodPost, "/users", map[string]any{"usuario": user}, "avatar", "bruno.png")
	require.Equal(t, http.StatusCreated, res.Status)
	created := decode[models.User](t, res.Data)
	assert.Equal(t, models.RoleSeller, created.Role)
	assert.Equal(t, "http://assets.local/uploads/bruno.png", created.AvatarURL)

	delete(user, "password")
	res = c.upload(http.MethodPut, "/users/u9", map[string]any{"usuario": user}, "avatar")
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Usuário atualizado", res.Notice.Title)

	res = c.call(http.MethodDelete, "/users/u1", nil)
	assert.Equal(t, http.StatusConflict, res.Status)
	assert.False(t, c.backend.called("DELETE /usuarios/u1"))

	res = c.call(http.MethodDelete, "/users/u9", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.True(t, c.backend.called("DELETE /usuarios/u9"))
}

func TestSalesHistoryAndCancel(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodGet, "/customers/c1/sales", nil)
	require.Equal(t, http.StatusOK, res.Status)
	list := decode[[]models.Sale](t, res.Data)
	require.Len(t, list, 1)
	assert.Equal(t, "v1", list[0].ID)

	res = c.call(http.MethodPost, "/sales/v1/cancel", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, "Venda cancelada", res.Notice.Title)
	assert.Equal(t, "Venda v1 cancelada", res.Notice.Text)
	assert.True(t, c.backend.called("POST /vendas/v1/cancelar"))
}

func TestAlertHistoryAndLogoutClearsDashboard(t *testing.T) {
	c := newConsole(t)
	c.login("ana@farmacia.com")

	res := c.call(http.MethodGet, "/alerts/history?unread=true", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, decode[[]models.Alert](t, res.Data), 1)
	assert.True(t, c.backend.called("GET /alertas/nao-lidos"))

	res = c.call(http.MethodPost, "/alerts/refresh", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Len(t, decode[alerts.Dashboard](t, res.Data).LowStock, 1)

	c.call(http.MethodPost, "/auth/logout", nil)
	c.login("ana@farmacia.com")

	res = c.call(http.MethodGet, "/alerts", nil)
	require.Equal(t, http.StatusOK, res.Status)
	assert.Zero(t, decode[alerts.Dashboard](t, res.Data).Count())
}
