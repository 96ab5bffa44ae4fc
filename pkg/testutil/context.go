package testutil

import (
	"net/http"

	id "reratrack/pkg/domain"
	"reratrack/pkg/requestcontext"
)

// WithUserID adds an owner to the request context, simulating the auth
// middleware. Invalid UUIDs are ignored so tests can exercise the
// unauthenticated path with the same helper.
func WithUserID(req *http.Request, userID string) *http.Request {
	if parsed, err := id.ParseUserID(userID); err == nil {
		return WithOwner(req, parsed)
	}
	return req
}

// WithOwner adds an already typed owner to the request context.
func WithOwner(req *http.Request, ownerID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), ownerID))
}

// WithRequestID tags the request with a fixed request id for log assertions.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
