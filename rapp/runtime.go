package rapp

import (
	"github.com/carlmjohnson/requests"
)

// Runtime provides access to app-scoped dependencies.
// Inject this into handler constructors via fx instead of pulling from context.
//
// Example:
//
//	type Handlers struct {
//	    rt *rapp.Runtime[Env]
//	    db *sql.DB
//	}
//
//	func NewHandlers(rt *rapp.Runtime[Env], db *sql.DB) *Handlers {
//	    return &Handlers{rt: rt, db: db}
//	}
//
//	func (h *Handlers) GetItem(ctx rhttp.Context) (any, error) {
//	    env := h.rt.Env()
//	    url, _ := h.rt.Reverse("get-item", id)
//	    // ...
//	}
type Runtime[E Environment] struct {
	env  E
	mux  *Mux
	reqb *requests.Builder
}

// NewRuntime creates a new Runtime with the given dependencies.
func NewRuntime[E Environment](env E, mux *Mux, reqb *requests.Builder) *Runtime[E] {
	return &Runtime[E]{
		env:  env,
		mux:  mux,
		reqb: reqb,
	}
}

// Env returns the environment configuration.
func (r *Runtime[E]) Env() E {
	return r.env
}

// Reverse returns the URL for a named route with the given parameters.
// The route must have been registered with a name using Handle/HandleFunc.
func (r *Runtime[E]) Reverse(name string, params ...string) (string, error) {
	return r.mux.Reverse(name, params...)
}

// NewRequest returns a fresh outbound request builder on the traced transport. The
// returned builder is a clone; configuring it does not affect later calls.
func (r *Runtime[E]) NewRequest() *requests.Builder {
	return r.reqb.Clone()
}
