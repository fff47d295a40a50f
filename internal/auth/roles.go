package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campus-kit/helpdesk-service/internal/domain"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

// RequireStudent ensures a student is authenticated.
func RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeStudent {
			return apperrors.NewForbidden("student required")
		}
		return c.Next()
	}
}

// RequireEmployeeRole ensures the employee principal has one of the allowed roles.
func RequireEmployeeRole(allowed ...domain.EmployeeRole) fiber.Handler {
	allowedSet := make(map[domain.EmployeeRole]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.SubjectType != domain.SubjectTypeEmployee || principal.Employee == nil {
			return apperrors.NewForbidden("staff role required")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[principal.Employee.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequirePermission checks the externally computed permission set for action.
func RequirePermission(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasPermission(action) {
			return apperrors.NewForbidden("action not permitted")
		}
		return c.Next()
	}
}
