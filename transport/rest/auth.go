package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/config"
	"github.com/rivalplay/arena-backend/internal/entity"
	"github.com/rivalplay/arena-backend/internal/pkg"
	"github.com/rivalplay/arena-backend/internal/service"
)

const urlUserInfo = "https://www.googleapis.com/oauth2/v2/userinfo"

type AuthHandler interface {
	GoogleLogin(ctx echo.Context) error
	GoogleCallback(ctx echo.Context) error
	Profile(ctx echo.Context) error
}

type authService interface {
	GenerateToken(user *entity.User) (string, error)
	VerifyToken(tokenString string) (*service.TokenClaims, error)
}

type userService interface {
	GetOrCreateByEmail(ctx context.Context, email, name string) (*entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
}

type authHandler struct {
	logger *slog.Logger

	oauthConfig *oauth2.Config

	auth authService
	user userService
}

func NewAuth(logger *slog.Logger, conf *config.Config, auth authService, user userService) AuthHandler {
	oauthConfig := &oauth2.Config{
		ClientID:     conf.GoogleOAuth.ClientID,
		ClientSecret: conf.GoogleOAuth.ClientSecret,

		RedirectURL: conf.GoogleOAuth.RedirectURL,

		Scopes:   conf.GoogleOAuth.Scopes,
		Endpoint: google.Endpoint,
	}

	return &authHandler{
		logger:      logger,
		oauthConfig: oauthConfig,
		auth:        auth,
		user:        user,
	}
}

func (that *authHandler) GoogleLogin(ctx echo.Context) error {
	log := that.logger.With("method", "GoogleLogin")

	// keep the state token in the cookie session for the callback check.
	stateToken := pkg.GenerateNewSessionID()

	userSession, err := session.Get("session", ctx)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	userSession.Values["state"] = stateToken
	if err = userSession.Save(ctx.Request(), ctx.Response()); err != nil {
		log.Error("failed to save session", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	authURL := that.oauthConfig.AuthCodeURL(stateToken)
	return ctx.Redirect(http.StatusTemporaryRedirect, authURL)
}

func (that *authHandler) GoogleCallback(ctx echo.Context) error {
	log := that.logger.With("method", "GoogleCallback")

	userSession, err := session.Get("session", ctx)
	if err != nil {
		log.Error("failed to get session", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	storedState, ok := userSession.Values["state"].(string)
	if !ok || storedState == "" {
		log.Error("state not found in session")
		return ctx.String(http.StatusBadRequest, "Invalid session state")
	}

	state := ctx.QueryParam("state")
	code := ctx.QueryParam("code")

	if state != storedState {
		log.Error("invalid OAuth state", "expected", storedState, "got", state)
		return ctx.String(http.StatusBadRequest, "Invalid OAuth state")
	}

	token, err := that.oauthConfig.Exchange(ctx.Request().Context(), code)
	if err != nil {
		log.Error("failed to exchange code for token", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	client := that.oauthConfig.Client(ctx.Request().Context(), token)
	userInfo, err := getUserInfo(client)
	if err != nil {
		log.Error("failed to get user info", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	user, err := that.user.GetOrCreateByEmail(ctx.Request().Context(), userInfo.Email, userInfo.Name)
	if err != nil {
		log.Error("failed to create or update user", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	jwtToken, err := that.auth.GenerateToken(user)
	if err != nil {
		log.Error("failed to generate JWT token", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		"token": jwtToken,
	})
}

// Profile - returns the account behind the bearer token, rating included.
func (that *authHandler) Profile(ctx echo.Context) error {
	log := that.logger.With("method", "Profile")

	header := ctx.Request().Header.Get(echo.HeaderAuthorization)
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))

	claims, err := that.auth.VerifyToken(token)
	if err != nil {
		return ctx.String(http.StatusUnauthorized, "Unauthorized")
	}

	user, err := that.user.GetUserByID(ctx.Request().Context(), claims.UserID)
	if errors.Is(err, apperror.ErrRecordNotFound) {
		return ctx.String(http.StatusNotFound, "User not found")
	}
	if err != nil {
		log.Error("failed to load user", "error", err)
		return ctx.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return ctx.JSON(http.StatusOK, user)
}

func getUserInfo(client *http.Client) (*entity.User, error) {
	resp, err := client.Get(urlUserInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to request user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get user info: status %d", resp.StatusCode)
	}

	var userInfo entity.User
	if err = json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	return &userInfo, nil
}
