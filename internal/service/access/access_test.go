package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

func TestRequire(t *testing.T) {
	admin := &models.User{ID: "1", Role: models.RoleAdmin}
	seller := &models.User{ID: "2", Role: models.RoleSeller}

	assert.NoError(t, Require(admin, ManageUsers))
	assert.NoError(t, Require(admin, Sell))
	assert.NoError(t, Require(seller, Sell))
	assert.NoError(t, Require(seller, MoveStock))

	assert.ErrorIs(t, Require(seller, ManageUsers), ErrForbidden)
	assert.ErrorIs(t, Require(seller, ManageMedicines), ErrForbidden)
	assert.ErrorIs(t, Require(seller, ViewAuditLogs), ErrForbidden)
	assert.ErrorIs(t, Require(nil, ViewCatalog), ErrForbidden)
	assert.ErrorIs(t, Require(&models.User{Role: "GUEST"}, ViewCatalog), ErrForbidden)
}

func TestNavigation(t *testing.T) {
	paths := func(links []NavLink) []string {
		var out []string
		for _, l := range links {
			out = append(out, l.Path)
		}
		return out
	}

	assert.Equal(t,
		[]string{"/inicio", "/medicamentos", "/categorias", "/clientes", "/estoque", "/vendas"},
		paths(Navigation(&models.User{Role: models.RoleSeller})))
	assert.Equal(t,
		[]string{"/inicio", "/medicamentos", "/categorias", "/clientes", "/estoque", "/usuarios", "/vendas", "/logs"},
		paths(Navigation(&models.User{Role: models.RoleAdmin})))
	assert.Nil(t, Navigation(nil))
}
