package access

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"
)

var (
	ErrUnauthenticated = errors.New("missing or invalid actor identity")
	ErrForbidden       = errors.New("actor is not allowed to perform this action")
)

// Actor is the identity supplied by the session collaborator. For vendor
// accounts ID is the id of the vendor they operate.
type Actor struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

func (a Actor) Is(role Role) bool {
	return a.Role == role
}

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleVendor:
		return RoleVendor, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func FromRequest(r *http.Request) (Actor, error) {
	id, err := strconv.ParseInt(r.Header.Get(HeaderActorID), 10, 64)
	if err != nil || id <= 0 {
		return Actor{}, ErrUnauthenticated
	}
	role, ok := ParseRole(r.Header.Get(HeaderActorRole))
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	return Actor{ID: id, Role: role}, nil
}

type ctxKey struct{}

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

func FromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}

// Middleware rejects requests without an identity and stores the actor in the
// request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, err := FromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequestActor returns the actor that Middleware stored for this request.
func RequestActor(r *http.Request) (Actor, error) {
	actor, ok := FromContext(r.Context())
	if !ok {
		return Actor{}, ErrUnauthenticated
	}
	return actor, nil
}

// CanAccess is the one place that decides whether an actor may touch a
// resource owned by customerID and served by vendorID. Zero ids never match.
func CanAccess(actor Actor, customerID, vendorID int64) bool {
	switch actor.Role {
	case RoleAdmin:
		return true
	case RoleCustomer:
		return customerID > 0 && actor.ID == customerID
	case RoleVendor:
		return vendorID > 0 && actor.ID == vendorID
	}
	return false
}

func Authorize(actor Actor, customerID, vendorID int64) error {
	if !CanAccess(actor, customerID, vendorID) {
		return ErrForbidden
	}
	return nil
}
