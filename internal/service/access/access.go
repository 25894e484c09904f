package access

import (
	"errors"

	"github.com/mamadbah2/farmacia/internal/domain/models"
)

// ErrForbidden is returned when the operator's role does not allow an action.
var ErrForbidden = errors.New("access: action not allowed for this role")

// Action names an operation that may be role gated.
type Action string

const (
	ViewCatalog      Action = "catalog.view"
	ManageCategories Action = "categories.manage"
	ManageMedicines  Action = "medicines.manage"
	ManageCustomers  Action = "customers.manage"
	MoveStock        Action = "stock.move"
	Sell             Action = "sales.sell"
	ViewSales        Action = "sales.view"
	ViewAlerts       Action = "alerts.view"
	ManageUsers      Action = "users.manage"
	ViewAuditLogs    Action = "logs.view"
)

var adminOnly = map[Action]bool{
	ManageMedicines: true,
	ManageUsers:     true,
	ViewAuditLogs:   true,
}

// Allowed reports whether user may perform action. A nil user may do nothing.
func Allowed(user *models.User, action Action) bool {
	if user == nil {
		return false
	}
	if adminOnly[action] {
		return user.IsAdmin()
	}
	return user.Role == models.RoleAdmin || user.Role == models.RoleSeller
}

// Require returns ErrForbidden unless user may perform action.
func Require(user *models.User, action Action) error {
	if !Allowed(user, action) {
		return ErrForbidden
	}
	return nil
}

// NavLink is one entry of the console menu.
type NavLink struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Navigation returns the menu for the operator, in display order.
func Navigation(user *models.User) []NavLink {
	if user == nil {
		return nil
	}

	links := []NavLink{
		{Path: "/inicio", Label: "Início", Icon: "home"},
		{Path: "/medicamentos", Label: "Medicamentos", Icon: "pill"},
		{Path: "/categorias", Label: "Categorias", Icon: "tag"},
		{Path: "/clientes", Label: "Clientes", Icon: "users"},
		{Path: "/estoque", Label: "Estoque", Icon: "archive"},
	}
	if user.IsAdmin() {
		links = append(links, NavLink{Path: "/usuarios", Label: "Usuários", Icon: "user-circle"})
	}
	links = append(links, NavLink{Path: "/vendas", Label: "Vendas", Icon: "cart"})
	if user.IsAdmin() {
		links = append(links, NavLink{Path: "/logs", Label: "Logs", Icon: "clipboard"})
	}
	return links
}
