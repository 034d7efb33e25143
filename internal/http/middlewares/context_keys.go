package middlewares

const (
	CtxRequestID = "request_id"
	CtxUser      = "auth.user"
	CtxIsAdmin   = "auth.isAdmin"
	CtxToken     = "auth.token"
)
