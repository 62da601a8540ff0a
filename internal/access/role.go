// Package access holds the role model shared by the gateway's server-side
// authorization and the capability document served to the frontend.
package access

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleCitizen Role = "CITIZEN"
	RoleOfficer Role = "DEPARTMENT_PERSON"
)

// API areas under /api that are gated by role.
const (
	AreaAdmin   = "admin"
	AreaCitizen = "citizen"
	AreaOfficer = "officer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCitizen, RoleOfficer:
		return true
	}
	return false
}

func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

var homes = map[Role]string{
	RoleAdmin:   "/admin/dashboard",
	RoleCitizen: "/dashboard",
	RoleOfficer: "/officer/dashboard",
}

var areas = map[Role][]string{
	RoleAdmin:   {AreaAdmin},
	RoleCitizen: {AreaCitizen},
	RoleOfficer: {AreaOfficer},
}

// Home is the landing route for a role; unknown roles go to /login.
func Home(r Role) string {
	if h, ok := homes[r]; ok {
		return h
	}
	return LoginRoute
}

func CanUseArea(r Role, area string) bool {
	for _, a := range areas[r] {
		if a == area {
			return true
		}
	}
	return false
}

type Capabilities struct {
	Role   Role     `json:"role"`
	Home   string   `json:"home"`
	Routes []string `json:"routes"`
	Areas  []string `json:"areas"`
}

// CapabilitiesFor resolves everything a role may reach, in route table order.
func CapabilitiesFor(r Role) Capabilities {
	routes := make([]string, 0)
	for _, rt := range routeTable {
		if rt.allows(r) {
			routes = append(routes, rt.Path)
		}
	}
	a := areas[r]
	if a == nil {
		a = []string{}
	}
	return Capabilities{Role: r, Home: Home(r), Routes: routes, Areas: a}
}
