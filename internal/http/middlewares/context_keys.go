package middlewares

const (
	CtxRequestID = "request_id"
	CtxIdentity  = "auth.identity"
)

// Identity is the explicit record attached to the request context after
// authentication. No open-ended extension: downstream code gets exactly
// these fields.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}
