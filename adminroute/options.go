package adminroute

import (
	"github.com/StellaShiina/ginadmin/admin"
	"github.com/StellaShiina/ginadmin/auth"
	"github.com/StellaShiina/ginadmin/handlers"
	"github.com/StellaShiina/ginadmin/logger"
)

type (
	AuthOptions      = auth.Options
	SessionOptions   = auth.SessionOptions
	MultipartOptions = handlers.MultipartOptions
)

// Options configures Register. Only Admin is required; leaving Auth nil
// mounts every route without authentication.
type Options struct {
	Admin     *admin.Admin
	Auth      *AuthOptions
	Multipart *MultipartOptions
	Session   *SessionOptions
	Logger    *logger.Logger
}
