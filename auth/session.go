package auth

import (
	"context"
	"encoding/gob"
	"net/http"
	"reflect"
	"sync"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/memstore"
	"github.com/gin-gonic/gin"

	"github.com/StellaShiina/ginadmin/validator"
)

// Well-known session keys
const (
	PrincipalKey = "adminUser"
	RedirectKey  = "redirectTo"
)

const (
	DefaultCookieName = "ginadmin"
	// DefaultMaxAge is one day, in seconds
	DefaultMaxAge = 24 * 60 * 60
)

// AuthenticateFunc maps credentials to a principal. A nil principal with a
// nil error means the credentials did not match.
type AuthenticateFunc func(ctx context.Context, email, password string) (any, error)

// Options enables the login/logout/session-guard flow.
type Options struct {
	// CookiePassword signs the session cookie
	CookiePassword string `validate:"required,min=32"`
	CookieName     string
	CookieSecure   bool
	Authenticate   AuthenticateFunc `validate:"required"`
}

// Validate checks the required fields.
func (o Options) Validate() error {
	return validator.Struct(o)
}

// SessionOptions are passed through to the session middleware.
type SessionOptions struct {
	// Store replaces the default in-memory store. Session data stays on the
	// server there; the cookie only carries a signed session id.
	Store sessions.Store
	// Cookie overrides the non-zero fields of the default cookie options.
	// HttpOnly is always set and Secure always comes from
	// Options.CookieSecure.
	Cookie sessions.Options
}

const cookieOptionsKey = "ginadmin/cookie-options"

// Middleware returns the sessions middleware configured from opts and so.
func Middleware(opts Options, so *SessionOptions) gin.HandlerFunc {
	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}

	cookieOpts := sessions.Options{Path: "/", MaxAge: DefaultMaxAge, HttpOnly: true, SameSite: http.SameSiteLaxMode}
	var store sessions.Store
	if so != nil {
		store = so.Store
		cookieOpts = mergeCookieOptions(cookieOpts, so.Cookie)
	}
	cookieOpts.Secure = opts.CookieSecure
	if store == nil {
		store = memstore.NewStore([]byte(opts.CookiePassword))
	}
	store.Options(cookieOpts)

	handler := sessions.Sessions(name, store)
	return func(c *gin.Context) {
		c.Set(cookieOptionsKey, cookieOpts)
		handler(c)
	}
}

func mergeCookieOptions(base, override sessions.Options) sessions.Options {
	if override.Path != "" {
		base.Path = override.Path
	}
	if override.Domain != "" {
		base.Domain = override.Domain
	}
	if override.MaxAge != 0 {
		base.MaxAge = override.MaxAge
	}
	if override.SameSite != 0 {
		base.SameSite = override.SameSite
	}
	return base
}

// session returns nil when no session middleware ran for this request.
func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

// Principal returns the authenticated principal or nil.
func Principal(c *gin.Context) any {
	s := session(c)
	if s == nil {
		return nil
	}
	return s.Get(PrincipalKey)
}

// SetPrincipal stores p and saves the session.
func SetPrincipal(c *gin.Context, p any) error {
	RegisterPrincipal(p)
	s := sessions.Default(c)
	s.Set(PrincipalKey, p)
	return s.Save()
}

// RedirectTarget returns the pending redirect path or "".
func RedirectTarget(c *gin.Context) string {
	s := session(c)
	if s == nil {
		return ""
	}
	target, _ := s.Get(RedirectKey).(string)
	return target
}

// SetRedirectTarget stores target and saves the session.
func SetRedirectTarget(c *gin.Context, target string) error {
	s := sessions.Default(c)
	s.Set(RedirectKey, target)
	return s.Save()
}

// Destroy clears the session and expires its cookie. With a server-side store
// the stored values are emptied too, so a copy of the old cookie no longer
// carries a principal.
func Destroy(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	opts := sessions.Options{Path: "/", MaxAge: -1}
	if v, ok := c.Get(cookieOptionsKey); ok {
		opts = v.(sessions.Options)
		opts.MaxAge = -1
	}
	s.Options(opts)
	return s.Save()
}

var registered sync.Map

// RegisterPrincipal makes p's concrete type encodable by gob-based stores.
// Login does this on demand; callers whose sessions outlive the process should
// call it at startup so existing cookies decode.
func RegisterPrincipal(p any) {
	if p == nil {
		return
	}
	t := reflect.TypeOf(p)
	if _, loaded := registered.LoadOrStore(t, struct{}{}); !loaded {
		gob.Register(p)
	}
}
