package services

import (
	"fmt"
	"strings"

	"farmFresh/entities"
)

// GuardPolicy selects how anonymous visitors are treated on role routes.
type GuardPolicy string

const (
	// PolicyStrict sends anonymous visitors of a role route to the login page.
	PolicyStrict GuardPolicy = "strict"
	// PolicyPermissive lets anonymous visitors preview role routes.
	PolicyPermissive GuardPolicy = "permissive"
)

func ParseGuardPolicy(raw string) (GuardPolicy, error) {
	switch p := GuardPolicy(strings.ToLower(strings.TrimSpace(raw))); p {
	case PolicyStrict, PolicyPermissive:
		return p, nil
	}
	return "", fmt.Errorf("unknown guard policy %q", raw)
}

type Outcome int

const (
	Allow Outcome = iota
	Redirect
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	case NotFound:
		return "not-found"
	}
	return "unknown"
}

type Decision struct {
	Outcome  Outcome
	Location string
}

type routeKind int

const (
	routeUnknown routeKind = iota
	routeRole
	routeAuth
)

type route struct {
	kind     routeKind
	required entities.Role
}

var navigationRoutes = map[string]route{
	"/":        {kind: routeRole, required: entities.RoleCustomer},
	"/farmers": {kind: routeRole, required: entities.RoleFarmer},
	"/login":   {kind: routeAuth},
	"/signup":  {kind: routeAuth},
}

func lookupRoute(path string) route {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return navigationRoutes[path]
}

// Decide returns the navigation decision for a visitor. user is nil for
// anonymous visitors. It has no side effects.
func Decide(policy GuardPolicy, user *entities.User, path string) Decision {
	r := lookupRoute(path)
	switch r.kind {
	case routeAuth:
		if user != nil {
			return Decision{Outcome: Redirect, Location: user.Role.Home()}
		}
		return Decision{Outcome: Allow}
	case routeRole:
		if user == nil {
			if policy == PolicyStrict {
				return Decision{Outcome: Redirect, Location: "/login"}
			}
			return Decision{Outcome: Allow}
		}
		if user.Role != r.required {
			return Decision{Outcome: Redirect, Location: user.Role.Home()}
		}
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: NotFound}
}
