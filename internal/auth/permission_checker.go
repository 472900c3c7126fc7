package auth

import "context"

// DefaultPermissionChecker answers coarse role questions used by route guards.
// Per-booking decisions go through CanCreateFor and CanCancel instead.
type DefaultPermissionChecker struct{}

func NewPermissionChecker() *DefaultPermissionChecker {
	return &DefaultPermissionChecker{}
}

func (c *DefaultPermissionChecker) HasRole(ctx context.Context, role Role, allowed ...Role) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	for _, a := range allowed {
		if role == a {
			return true, nil
		}
	}
	return false, nil
}

func (c *DefaultPermissionChecker) IsAdminCtx(ctx context.Context, role Role) (bool, error) {
	return c.HasRole(ctx, role, RoleAdmin)
}
