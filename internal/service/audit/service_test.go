package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	"github.com/mamadbah2/farmacia/internal/service/access"
)

type fakeAPI struct {
	logs   []models.AuditLog
	csv    string
	called int
}

func (f *fakeAPI) ListAuditLogs(context.Context) ([]models.AuditLog, error) {
	f.called++
	return f.logs, nil
}

func (f *fakeAPI) ExportAuditLogs(context.Context) ([]byte, error) {
	f.called++
	return []byte(f.csv), nil
}

type fixedOperator struct{ user *models.User }

func (o fixedOperator) CurrentUser() (*models.User, error) {
	return o.user, nil
}

type fakeSheets struct {
	existing [][]interface{}
	appended [][]interface{}
}

func (f *fakeSheets) AppendRows(_ context.Context, _ string, rows [][]interface{}) error {
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeSheets) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.existing, nil
}

var (
	admin  = fixedOperator{&models.User{ID: "1", Role: models.RoleAdmin}}
	seller = fixedOperator{&models.User{ID: "2", Role: models.RoleSeller}}
)

func TestSellerIsDeniedWithoutRequest(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, seller, nil, "Auditoria!A:J", t.TempDir(), nil)

	_, err := svc.Recent(context.Background(), "")
	assert.ErrorIs(t, err, access.ErrForbidden)
	_, err = svc.ExportCSV(context.Background())
	assert.ErrorIs(t, err, access.ErrForbidden)
	assert.Zero(t, api.called)
}

func TestRecentFiltersCaseInsensitively(t *testing.T) {
	api := &fakeAPI{logs: []models.AuditLog{
		{ID: "1", Operation: "CREATE", Entity: "MEDICAMENTO", Summary: "Dipirona cadastrada", UserName: "Ana"},
		{ID: "2", Operation: "DELETE", Entity: "CLIENTE", Summary: "Cliente removido", UserName: "Bruno"},
		{ID: "3", Operation: "UPDATE", Entity: "VENDA", Summary: "Venda cancelada", UserEmail: "ana@farmacia.com"},
	}}
	svc := NewService(api, admin, nil, "", t.TempDir(), nil)

	got, err := svc.Recent(context.Background(), "  ANA ")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)

	all, err := svc.Recent(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExportCSVWritesDatedFile(t *testing.T) {
	dir := t.TempDir()
	api := &fakeAPI{csv: "id,operacao\n1,CREATE\n"}
	svc := NewService(api, admin, nil, "", dir, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC) }

	path, err := svc.ExportCSV(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "logs_auditoria_2025-06-15.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,operacao\n1,CREATE\n", string(data))
}

func TestPublishToSheetSkipsKnownRows(t *testing.T) {
	api := &fakeAPI{csv: "id,operacao\n1,CREATE\n2,DELETE\n3,UPDATE\n"}
	sheet := &fakeSheets{existing: [][]interface{}{{"id", "operacao"}, {"1", "CREATE"}}}
	svc := NewService(api, admin, sheet, "Auditoria!A:J", t.TempDir(), nil)

	n, err := svc.PublishToSheet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, [][]interface{}{{"2", "DELETE"}, {"3", "UPDATE"}}, sheet.appended)
}

func TestPublishToSheetWritesHeaderOnEmptySheet(t *testing.T) {
	api := &fakeAPI{csv: "id,operacao\n1,CREATE\n"}
	sheet := &fakeSheets{}
	svc := NewService(api, admin, sheet, "Auditoria!A:J", t.TempDir(), nil)

	n, err := svc.PublishToSheet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []interface{}{"id", "operacao"}, sheet.appended[0])
}

func TestPublishToSheetDisabled(t *testing.T) {
	svc := NewService(&fakeAPI{}, admin, nil, "", t.TempDir(), nil)
	_, err := svc.PublishToSheet(context.Background())
	assert.ErrorIs(t, err, ErrSheetsDisabled)
}
