package mock

import (
	"net/http"
	"sort"
	"strings"
	"sync"
)

// Wildcard is the route key that answers any otherwise unroutable request
const Wildcard = "*"

// RouteHandler serves a request whose body has already been read in full.
type RouteHandler func(w http.ResponseWriter, r *http.Request, body string) error

// Route is a registered route key and its handler
type Route struct {
	Key     string
	Handler RouteHandler
}

// Router resolves a request target to a route: exact target first, then the
// target without its query string, then the wildcard.
type Router struct {
	mu     sync.RWMutex
	routes map[string]*Route
}

// NewRouter creates an empty router
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]*Route),
	}
}

// AddRoute registers handler under key, replacing any previous handler
func (r *Router) AddRoute(key string, handler RouteHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[key] = &Route{Key: key, Handler: handler}
}

// RemoveRoute drops the route registered under key
func (r *Router) RemoveRoute(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.routes, key)
}

// Match finds the route for a raw request target such as "/users?page=2"
func (r *Router) Match(target string) (*Route, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if route, ok := r.routes[target]; ok {
		return route, true
	}

	if idx := strings.Index(target, "?"); idx != -1 {
		if route, ok := r.routes[target[:idx]]; ok {
			return route, true
		}
	}

	if route, ok := r.routes[Wildcard]; ok {
		return route, true
	}

	return nil, false
}

// Routes returns the registered routes sorted by key
func (r *Router) Routes() []*Route {
	r.mu.RLock()
	defer r.mu.RUnlock()

	routes := make([]*Route, 0, len(r.routes))
	for _, route := range r.routes {
		routes = append(routes, route)
	}
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Key < routes[j].Key
	})
	return routes
}

// Len returns the number of registered routes
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.routes)
}
