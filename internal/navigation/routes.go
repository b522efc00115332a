package navigation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainauth "github.com/gpse/sesam-client/internal/domain/auth"
)

// Redirect targets used for non-Allow decisions.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// ErrRouteNotFound is returned when no route matches a path.
var ErrRouteNotFound = errors.New("route not found")

// Route is a named client route with its access requirements.
type Route struct {
	Name    string
	Pattern string
	Requirements
}

// Navigation is the outcome of resolving a path.
type Navigation struct {
	Route    Route
	Params   map[string]string
	Decision domainauth.Decision
	// Path is the requested path.
	Path string
	// Target is the path the client ends up on: the requested path when allowed,
	// otherwise the redirect destination.
	Target string
}

// Arrived reports whether the client ends up on the requested path. A redirect to
// the page being entered, such as /login while entering /login, counts as arrival.
func (n Navigation) Arrived() bool {
	return n.Target == n.Path
}

// signedInAdmin sends anonymous users to the login page instead of home.
var (
	public        = Requirements{}
	signedIn      = Requirements{RequiresAuth: true}
	adminOnly     = Requirements{AdminOnly: true}
	signedInAdmin = Requirements{RequiresAuth: true, AdminOnly: true}
)

// DefaultRoutes returns the Sesam route table.
func DefaultRoutes() []Route {
	return []Route{
		{Name: "home", Pattern: "/", Requirements: public},
		{Name: "login", Pattern: "/login", Requirements: public},
		{Name: "registration", Pattern: "/registration", Requirements: public},
		{Name: "redirectRegistration", Pattern: "/registration/:email/:token", Requirements: public},
		{Name: "passwordReset", Pattern: "/reset/:email/:token", Requirements: public},
		{Name: "imprint", Pattern: "/imprint", Requirements: public},
		{Name: "PlanList", Pattern: "/list", Requirements: public},
		{Name: "FloorSelection", Pattern: "/buildings/:buildingId", Requirements: public},
		{Name: "FloorplanVisual", Pattern: "/buildings/:buildingId/floors/:floorId", Requirements: public},
		{Name: "credentialView", Pattern: "/credentialView/:roomId", Requirements: public},

		{Name: "profile", Pattern: "/profile", Requirements: signedIn},
		{Name: "changePassword", Pattern: "/changePassword", Requirements: signedIn},
		{Name: "UserCredentialView", Pattern: "/credentials", Requirements: signedIn},
		{Name: "issuer", Pattern: "/issue", Requirements: signedIn},

		{Name: "admin", Pattern: "/admin", Requirements: adminOnly},
		{Name: "userManagement", Pattern: "/admin/users", Requirements: adminOnly},
		{Name: "userDetail", Pattern: "/admin/users/:email", Requirements: signedInAdmin},
		{Name: "credentialManagement", Pattern: "/admin/credentials", Requirements: adminOnly},
		{Name: "credentialEdit", Pattern: "/admin/credentials/edit/:id", Requirements: adminOnly},
		{Name: "editChecklist", Pattern: "/admin/edit/:credentialId", Requirements: adminOnly},
		{Name: "credentialGroupManagement", Pattern: "/admin/credentialgroups", Requirements: adminOnly},
		{Name: "credentialGroupAdd", Pattern: "/admin/credentialgroups/add", Requirements: adminOnly},
		{Name: "credentialGroupEdit", Pattern: "/admin/credentialgroups/edit/:name", Requirements: adminOnly},
		{Name: "adminWebsiteDesign", Pattern: "/admin/designsettings", Requirements: signedInAdmin},
	}
}

// Router resolves paths against a route table and runs the guard for each navigation.
type Router struct {
	routes []Route
	byName map[string]Route
	guard  *Guard
}

// NewRouter constructs a Router. A nil routes slice uses DefaultRoutes.
func NewRouter(guard *Guard, routes []Route) *Router {
	if routes == nil {
		routes = DefaultRoutes()
	}
	byName := make(map[string]Route, len(routes))
	for _, r := range routes {
		byName[r.Name] = r
	}
	return &Router{routes: routes, byName: byName, guard: guard}
}

// Lookup returns the route registered under name.
func (r *Router) Lookup(name string) (Route, bool) {
	route, ok := r.byName[name]
	return route, ok
}

// Match returns the first route whose pattern matches path, with its bound parameters.
func (r *Router) Match(path string) (Route, map[string]string, error) {
	for _, route := range r.routes {
		if params, ok := matchPattern(route.Pattern, path); ok {
			return route, params, nil
		}
	}
	return Route{}, nil, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
}

// Navigate resolves path and runs the guard before the destination is entered.
func (r *Router) Navigate(ctx context.Context, path string) (Navigation, error) {
	route, params, err := r.Match(path)
	if err != nil {
		return Navigation{}, err
	}
	return r.enter(ctx, route, params, path), nil
}

// NavigateTo runs the guard for the named route.
func (r *Router) NavigateTo(ctx context.Context, name string, params map[string]string) (Navigation, error) {
	route, ok := r.Lookup(name)
	if !ok {
		return Navigation{}, fmt.Errorf("%w: %s", ErrRouteNotFound, name)
	}
	return r.enter(ctx, route, params, expandPattern(route.Pattern, params)), nil
}

func (r *Router) enter(ctx context.Context, route Route, params map[string]string, path string) Navigation {
	nav := Navigation{Route: route, Params: params, Path: path, Decision: r.guard.Check(ctx, route.Requirements)}
	switch nav.Decision {
	case domainauth.Allow:
		nav.Target = path
	case domainauth.RedirectHome:
		nav.Target = HomePath
	default:
		nav.Target = LoginPath
	}
	return nav
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchPattern(pattern, path string) (map[string]string, bool) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	want, got := splitPath(pattern), splitPath(path)
	if len(want) != len(got) {
		return nil, false
	}
	params := map[string]string{}
	for i, seg := range want {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			if got[i] == "" {
				return nil, false
			}
			params[name] = got[i]
			continue
		}
		if seg != got[i] {
			return nil, false
		}
	}
	return params, true
}

func expandPattern(pattern string, params map[string]string) string {
	segs := splitPath(pattern)
	for i, seg := range segs {
		if name, ok := strings.CutPrefix(seg, ":"); ok {
			segs[i] = params[name]
		}
	}
	return "/" + strings.Join(segs, "/")
}
