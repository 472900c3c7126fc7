package auth

import "context"

type ctxKey string

const ContextUserKey ctxKey = "user"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok && u != nil
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// sameDepartment treats an empty department as belonging to no team.
func sameDepartment(a, b *User) bool {
	return a.Department != "" && a.Department == b.Department
}

// AllowedBookees filters users down to the ones actor may book for.
// The result always contains actor when actor is part of users.
func AllowedBookees(actor *User, users []User) []User {
	if actor == nil {
		return nil
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		if CanCreateFor(actor, &u) {
			out = append(out, u)
		}
	}
	return out
}

// CanCreateFor reports whether actor may create a booking owned by bookee.
func CanCreateFor(actor, bookee *User) bool {
	if actor == nil || bookee == nil {
		return false
	}
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		if bookee.ID == actor.ID {
			return true
		}
		return bookee.Role == RoleEmployee && sameDepartment(actor, bookee)
	case RoleEmployee:
		return bookee.ID == actor.ID
	default:
		return false
	}
}

// CanCancel reports whether actor may cancel a booking owned by ownerID.
// owner is the current directory record for ownerID and may be nil when the
// owner no longer exists, in which case only admins may cancel.
func CanCancel(actor *User, ownerID string, owner *User) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleManager:
		if ownerID == actor.ID {
			return true
		}
		if owner == nil {
			return false
		}
		return owner.Role == RoleEmployee && sameDepartment(actor, owner)
	case RoleEmployee:
		return ownerID == actor.ID
	default:
		return false
	}
}
