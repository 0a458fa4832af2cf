package guard

import "sync"

// Navigator keeps route history and applies guard decisions to it.
type Navigator struct {
	mu      sync.Mutex
	guard   *Guard
	history []Route
}

// NewNavigator creates a navigator positioned at start.
func NewNavigator(g *Guard, start Route) *Navigator {
	return &Navigator{guard: g, history: []Route{start}}
}

// Current returns the route on top of the history.
func (n *Navigator) Current() Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.history[len(n.history)-1]
}

// History returns a copy of the history stack, oldest first.
func (n *Navigator) History() []Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Route(nil), n.history...)
}

// Push navigates to r. A redirect lands on its target in place of r, so
// Back never returns into a route the guard refused.
func (n *Navigator) Push(r Route) Decision {
	d := n.guard.Enter(r)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.history = append(n.history, d.Route)
	return d
}

// Replace navigates to r, replacing the current entry.
func (n *Navigator) Replace(r Route) Decision {
	d := n.guard.Enter(r)

	n.mu.Lock()
	defer n.mu.Unlock()
	n.history[len(n.history)-1] = d.Route
	return d
}

// Back pops the current entry and re-enters the previous route.
// It returns false when there is nothing to go back to.
func (n *Navigator) Back() (Decision, bool) {
	n.mu.Lock()
	if len(n.history) < 2 {
		n.mu.Unlock()
		return Decision{}, false
	}
	n.history = n.history[:len(n.history)-1]
	prev := n.history[len(n.history)-1]
	n.mu.Unlock()

	return n.Replace(prev), true
}

// Revalidate re-enters the current route, for example after sign-out.
func (n *Navigator) Revalidate() Decision {
	return n.Replace(n.Current())
}
