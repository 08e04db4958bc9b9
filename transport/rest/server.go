package rest

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

func Start(port, sessionSecret string, auth AuthHandler) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.GET("/ping", pingHandler)
	e.GET("/auth/google/login", auth.GoogleLogin)
	e.GET("/auth/google/callback", auth.GoogleCallback)
	e.GET("/profile", auth.Profile)

	if err := e.Start(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

func pingHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "pong")
}
