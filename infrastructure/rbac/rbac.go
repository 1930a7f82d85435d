package rbac

import (
	"strings"
	"sync"
)

// Roles come from the remote user directory (user_role on /user records).
const (
	RoleAdmin   = "admin"
	RoleInbound = "inbound"
	RolePicking = "picking"
)

// Resource grants one role access to one route.
type Resource struct {
	Role   string
	Code   string
	Method string
	Path   string
}

// Rbac maps operator roles to the kiosk routes they may reach.
type Rbac struct {
	mu        sync.RWMutex
	resources map[string][]Resource
}

func New() *Rbac {
	return &Rbac{resources: make(map[string][]Resource)}
}

func (r *Rbac) Add(role, code, method, path string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[role] = append(r.resources[role], Resource{
		Role:   role,
		Code:   code,
		Method: strings.ToUpper(method),
		Path:   path,
	})
}

// ResourcesFor returns the route grants for a role.
func (r *Rbac) ResourcesFor(role string) []Resource {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.resources[role]
}

// Allowed reports whether the role may hit the given route. Admins may hit
// everything.
func (r *Rbac) Allowed(role, urlPath, method string) bool {
	if role == RoleAdmin {
		return true
	}
	method = strings.ToUpper(method)
	for _, res := range r.ResourcesFor(role) {
		if res.Method != method {
			continue
		}
		if matchPath(res.Path, urlPath) {
			return true
		}
	}
	return false
}

func matchPath(pattern, path string) bool {
	if pattern == path {
		return true
	}

	pattern = strings.Trim(pattern, "/")
	path = strings.Trim(path, "/")

	patternSeg := strings.Split(pattern, "/")
	pathSeg := strings.Split(path, "/")

	// Segment wildcard matching: /a/*/c.
	if len(patternSeg) == len(pathSeg) {
		for i := range patternSeg {
			if patternSeg[i] == "*" {
				continue
			}
			if patternSeg[i] != pathSeg[i] {
				return false
			}
		}
		return true
	}

	// Prefix wildcard matching: /a/b/* matches any deeper suffix.
	if len(patternSeg) > 0 && patternSeg[len(patternSeg)-1] == "*" {
		prefix := "/" + strings.Join(patternSeg[:len(patternSeg)-1], "/")
		return strings.HasPrefix("/"+path, prefix+"/") || "/"+path == prefix
	}

	return false
}
