package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/rivalplay/arena-backend/internal/apperror"
	"github.com/rivalplay/arena-backend/internal/entity"
)

// TokenClaims is the identity carried by a verified token.
type TokenClaims struct {
	UserID string
	Name   string
	Email  string
}

type AuthService interface {
	GenerateToken(user *entity.User) (string, error)
	VerifyToken(tokenString string) (*TokenClaims, error)
}

type authServiceImpl struct {
	secretKey string
}

func NewAuthService(secretKey string) AuthService {
	return &authServiceImpl{
		secretKey: secretKey,
	}
}

func (that *authServiceImpl) GenerateToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{}
	claims["_id"] = user.ID
	claims["name"] = user.Name
	claims["email"] = user.Email
	claims["exp"] = time.Now().Add(time.Hour * 24).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(that.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

func (that *authServiceImpl) VerifyToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, apperror.ErrUnauthenticated
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", apperror.ErrUnauthenticated, token.Header["alg"])
		}
		return []byte(that.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrUnauthenticated, err) //nolint: errorlint // keep the sentinel wrapped
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperror.ErrUnauthenticated
	}

	userID, _ := claims["_id"].(string)
	name, _ := claims["name"].(string)
	email, _ := claims["email"].(string)

	if userID == "" {
		return nil, apperror.ErrUnauthenticated
	}

	return &TokenClaims{
		UserID: userID,
		Name:   name,
		Email:  email,
	}, nil
}
