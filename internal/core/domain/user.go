package domain

// Permission strings carried in access tokens.
const (
	PermBookRead   = "book:read"
	PermBookCreate = "book:create"
	PermBookUpdate = "book:update"
	PermBookDelete = "book:delete"
	PermUserRead   = "user:read"
	PermUserCreate = "user:create"
	PermUserUpdate = "user:update"
	PermUserDelete = "user:delete"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Role is embedded in a User and has no lifecycle of its own.
type Role struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// User models an authenticated actor in the system.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	Roles        []Role `json:"roles"`
}

// RoleNames returns the names of the user's roles in order.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

// Permissions flattens the permissions of every role, dropping duplicates
// while keeping first-seen order.
func (u *User) Permissions() []string {
	seen := make(map[string]struct{})
	perms := make([]string, 0)
	for _, r := range u.Roles {
		for _, p := range r.Permissions {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			perms = append(perms, p)
		}
	}
	return perms
}
