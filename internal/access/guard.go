package access

import "strings"

const LoginRoute = "/login"

type Route struct {
	Path   string
	Public bool
	Roles  []Role
}

func (rt Route) allows(r Role) bool {
	for _, allowed := range rt.Roles {
		if allowed == r {
			return true
		}
	}
	return false
}

var routeTable = []Route{
	{Path: "/login", Public: true},
	{Path: "/register", Public: true},

	{Path: "/dashboard", Roles: []Role{RoleCitizen}},
	{Path: "/departments", Roles: []Role{RoleCitizen}},
	{Path: "/departments/:id", Roles: []Role{RoleCitizen}},
	{Path: "/services/:id", Roles: []Role{RoleCitizen}},
	{Path: "/requests", Roles: []Role{RoleCitizen}},
	{Path: "/requests/:id", Roles: []Role{RoleCitizen}},

	{Path: "/admin/dashboard", Roles: []Role{RoleAdmin}},
	{Path: "/admin/departments", Roles: []Role{RoleAdmin}},
	{Path: "/admin/services", Roles: []Role{RoleAdmin}},
	{Path: "/admin/users", Roles: []Role{RoleAdmin}},

	{Path: "/officer/dashboard", Roles: []Role{RoleOfficer}},
	{Path: "/officer/requests", Roles: []Role{RoleOfficer}},
	{Path: "/officer/requests/:id", Roles: []Role{RoleOfficer}},
}

// Decision is the outcome of a navigation attempt. When Allow is false the
// client goes to Redirect instead.
type Decision struct {
	Allow    bool   `json:"allow"`
	Redirect string `json:"redirect,omitempty"`
}

func allow() Decision { return Decision{Allow: true} }
func redirect(to string) Decision { return Decision{Redirect: to} }

// Guard decides whether the session may open path.
func Guard(s *Session, path string) Decision {
	rt, ok := matchRoute(path)
	authed := s.Authenticated()

	switch {
	case !ok:
		// unknown routes fall through to /login, which bounces signed-in users home
		if authed {
			return redirect(publicHome(s.User.Role))
		}
		return redirect(LoginRoute)
	case rt.Public:
		if authed {
			return redirect(publicHome(s.User.Role))
		}
		return allow()
	case !authed:
		return redirect(LoginRoute)
	case !rt.allows(s.User.Role):
		return redirect(Home(s.User.Role))
	}
	return allow()
}

// publicHome differs from Home only for unknown roles.
func publicHome(r Role) string {
	if h, ok := homes[r]; ok {
		return h
	}
	return "/dashboard"
}

func matchRoute(path string) (Route, bool) {
	path = strings.TrimRight(path, "/")
	if path == "" {
		return Route{}, false
	}
	segments := strings.Split(path, "/")
	for _, rt := range routeTable {
		pattern := strings.Split(rt.Path, "/")
		if len(pattern) != len(segments) {
			continue
		}
		matched := true
		for i, p := range pattern {
			if strings.HasPrefix(p, ":") {
				if segments[i] == "" {
					matched = false
					break
				}
				continue
			}
			if p != segments[i] {
				matched = false
				break
			}
		}
		if matched {
			return rt, true
		}
	}
	return Route{}, false
}
