package cache

import (
	"fmt"
	"strings"

	"github.com/aussiebroadwan/accounts/internal/accounts/domain"
)

// Tags group keys for bulk eviction.
const (
	TagUsers = "users" // paginated listings
	TagUser  = "user"  // single account views
	TagRole  = "role"  // single account role lookups
	TagLogin = "login" // login results
)

func UserKey(id string) string  { return TagUser + ":" + id }
func RoleKey(id string) string  { return TagRole + ":" + id }
func LoginKey(id string) string { return TagLogin + ":" + id }

func PageKey(p domain.PageRequest) string {
	return fmt.Sprintf("%s:page:%d-%d", TagUsers, p.Size, p.Number)
}

func StatusPageKey(status domain.Status, p domain.PageRequest) string {
	return fmt.Sprintf("%s:page:status:%d:%d-%d", TagUsers, int(status), p.Size, p.Number)
}

func RolePageKey(role domain.Role, p domain.PageRequest) string {
	return fmt.Sprintf("%s:page:role:%d:%d-%d", TagUsers, int(role), p.Size, p.Number)
}

// TagOf returns the tag a key belongs to.
func TagOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
