package domain

import "strings"

// Roles form a closed set. Raw strings arriving from forms or tokens go
// through NormalizeRole exactly once at the service boundary.
const (
	RoleUser     = "USER"
	RoleOperator = "OPERATOR"
	RoleAdmin    = "ADMIN"
)

// User is an account in the user directory. The password column stores a
// bcrypt hash and is never serialized outward.
type User struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string `gorm:"uniqueIndex;not null" json:"username" form:"username"`
	Password   string `gorm:"column:pass;size:60;not null" json:"-"`
	Permission string `gorm:"not null" json:"permission" form:"permission"`
	FullName   string `gorm:"column:fullname" json:"fullname" form:"fullname"`
	Department string `json:"department" form:"department"`
}

// TableName Specify table name
func (User) TableName() string {
	return "user_data"
}

// NormalizeRole maps a raw role string to its canonical form: blank falls
// back to USER, everything else is trimmed and uppercased. The result is
// not guaranteed to be a valid role, callers check with ValidRole.
func NormalizeRole(raw string) string {
	role := strings.TrimSpace(raw)
	if role == "" {
		return RoleUser
	}
	return strings.ToUpper(role)
}

// ValidRole reports whether role belongs to the closed role set.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// Role returns the user's normalized role.
func (u *User) Role() string {
	return NormalizeRole(u.Permission)
}

// SetRole stores the normalized form of role.
func (u *User) SetRole(role string) {
	u.Permission = NormalizeRole(role)
}
