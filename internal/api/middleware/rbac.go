package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/user-directory/internal/core/domain"
)

// Operation names a protected directory operation.
type Operation string

const (
	OpListUsers  Operation = "users.list"
	OpGetUser    Operation = "users.get"
	OpCreateUser Operation = "users.create"
	OpUpdateUser Operation = "users.update"
	OpDeleteUser Operation = "users.delete"
)

// OperationRoles is the coarse role table checked before a handler runs.
// Per-record ownership is enforced by the user service.
var OperationRoles = map[Operation][]domain.Role{
	OpListUsers:  {domain.RoleAdmin},
	OpCreateUser: {domain.RoleAdmin},
	OpGetUser:    {domain.RoleAdmin, domain.RoleUser},
	OpUpdateUser: {domain.RoleAdmin, domain.RoleUser},
	OpDeleteUser: {domain.RoleAdmin, domain.RoleUser},
}

// Gate enforces the role set declared for op. An operation missing from the
// table admits nobody.
func Gate(op Operation) echo.MiddlewareFunc {
	return RBAC(OperationRoles[op]...)
}

// RBAC enforces role-based access control against the authenticated actor.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := Actor(c)
			if actor == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if _, ok := allowed[actor.Role]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(c)
		}
	}
}
