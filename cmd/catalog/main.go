// Command catalog serves a sign-up form that shows every field type.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	hxformecho "github.com/oasisprotocol/hxform/adapters/echo"
)

func main() {
	cfg, err := Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	if cfg.Key == nil {
		logger.Warn("HXFORM_KEY is not set, sessions will not survive a restart")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	opts := []hxformecho.Option{
		hxformecho.WithPath("/signup"),
		hxformecho.WithSessions(cfg.Sessions),
		hxformecho.WithLogger(logger),
	}
	if cfg.Key != nil {
		opts = append(opts, hxformecho.WithKey(cfg.Key))
	}
	srv, err := hxformecho.Mount(e, newSignupForm(newAccounts()), opts...)
	if err != nil {
		log.Fatal(err)
	}

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, srv.Path())
	})

	log.Fatal(e.Start(cfg.Port))
}
