package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/StellaShiina/ginadmin/admin"
	"github.com/StellaShiina/ginadmin/adminroute"
	"github.com/StellaShiina/ginadmin/auth"
	"github.com/StellaShiina/ginadmin/config"
	"github.com/StellaShiina/ginadmin/db"
	"github.com/StellaShiina/ginadmin/logger"
	"github.com/StellaShiina/ginadmin/middleware"
)

// Version is set at build time
var Version = "dev"

var (
	addrFlag   string
	noAuthFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "ginadmin",
	Short: "Example server for the gin admin adapter",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the example admin server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if addrFlag != "" {
			cfg.Addr = addrFlag
		}
		if noAuthFlag {
			cfg.AuthEnabled = false
		}
		return serve(cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ginadmin %s\n", Version)
	},
}

func init() {
	serveCmd.Flags().StringVar(&addrFlag, "addr", "", "listen address, overrides ADDR")
	serveCmd.Flags().BoolVar(&noAuthFlag, "no-auth", false, "mount the panel without login")
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	resources, err := exampleResources(cfg)
	if err != nil {
		return err
	}
	panel, err := admin.New(admin.Options{
		RootPath:  cfg.AdminRootPath,
		BundleDir: cfg.BundleDir,
		Resources: resources,
		Pages: map[string]string{
			"about": "<p>Example panel served by ginadmin.</p>",
		},
	})
	if err != nil {
		return err
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	opts := adminroute.Options{Admin: panel, Logger: log}
	if cfg.AuthEnabled {
		authenticate, err := staticAuthenticator(cfg)
		if err != nil {
			return err
		}
		auth.RegisterPrincipal(map[string]any{})
		opts.Auth = &adminroute.AuthOptions{
			CookiePassword: cfg.CookiePassword,
			CookieName:     cfg.CookieName,
			CookieSecure:   cfg.CookieSecure,
			Authenticate:   authenticate,
		}
	}
	if err := adminroute.Register(r, opts); err != nil {
		return err
	}

	log.Info("admin panel listening", "url", fmt.Sprintf("http://%s%s", cfg.ListenAddr(), panel.Options().RootPath))
	return r.Run(cfg.ListenAddr())
}

// staticAuthenticator accepts the single configured admin. The password is
// compared against ADMIN_PASSWORD_HASH, or a bcrypt hash of ADMIN_PASSWORD
// made at startup.
func staticAuthenticator(cfg *config.Config) (auth.AuthenticateFunc, error) {
	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash admin password: %w", err)
		}
	}
	email := cfg.AdminEmail
	return func(_ context.Context, gotEmail, gotPassword string) (any, error) {
		if gotEmail != email {
			return nil, nil
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(gotPassword)) != nil {
			return nil, nil
		}
		return map[string]any{"email": email}, nil
	}, nil
}

func exampleResources(cfg *config.Config) ([]admin.Resource, error) {
	if cfg.DatabaseURL == "" {
		articles := admin.NewMemoryResource("article", "Articles",
			admin.Property{Name: "title", Type: "string"},
			admin.Property{Name: "content", Type: "text"},
			admin.Property{Name: "published", Type: "boolean"},
		)
		categories := admin.NewMemoryResource("category", "Categories",
			admin.Property{Name: "name", Type: "string"},
		)
		return []admin.Resource{articles, categories}, nil
	}

	if err := db.Init(cfg); err != nil {
		return nil, err
	}
	articles, err := db.NewGormResource[db.Article](db.DB, "article", "Articles")
	if err != nil {
		return nil, err
	}
	categories, err := db.NewGormResource[db.Category](db.DB, "category", "Categories")
	if err != nil {
		return nil, err
	}
	return []admin.Resource{articles, categories}, nil
}
