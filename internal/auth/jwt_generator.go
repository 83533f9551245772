package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/go-oauth2/oauth2/v4"
	"github.com/golang-jwt/jwt/v5"
)

// Claims read by the authentication middleware.
const (
	ClaimUserID = "uid"
	ClaimRole   = "role"
)

// TokenIssuer signs the bearer tokens handed out at registration, login and
// the OAuth2 token endpoint. All of them carry the same uid/role claims.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	method jwt.SigningMethod
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		method: jwt.SigningMethodHS256,
	}
}

func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Secret is the HMAC key the authentication middleware verifies tokens with.
func (i *TokenIssuer) Secret() []byte { return i.secret }

// Issue returns a signed access token for user and its lifetime.
func (i *TokenIssuer) Issue(user *models.User) (string, time.Duration, error) {
	if user == nil || user.ID == 0 {
		return "", 0, fmt.Errorf("cannot issue token: user has no id")
	}
	now := time.Now()
	token, err := i.sign(jwt.MapClaims{
		ClaimUserID: strconv.FormatUint(uint64(user.ID), 10),
		ClaimRole:   roleOf(user),
		"iat":       now.Unix(),
		"exp":       now.Add(i.ttl).Unix(),
	})
	if err != nil {
		return "", 0, err
	}
	return token, i.ttl, nil
}

func (i *TokenIssuer) sign(claims jwt.MapClaims) (string, error) {
	return jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
}

func roleOf(user *models.User) string {
	if user.Role == "" {
		return models.RoleCustomer
	}
	return user.Role
}

// CustomJWTAccessGenerate plugs the TokenIssuer into the go-oauth2 manager.
type CustomJWTAccessGenerate struct {
	issuer *TokenIssuer
	users  services.UserService
}

func NewCustomJWTAccessGenerate(issuer *TokenIssuer, users services.UserService) *CustomJWTAccessGenerate {
	return &CustomJWTAccessGenerate{issuer: issuer, users: users}
}

// Token generates a JWT access token with custom claims.
// This method is called by the OAuth2 library to generate access tokens
func (g *CustomJWTAccessGenerate) Token(ctx context.Context, data *oauth2.GenerateBasic, isGenRefresh bool) (string, string, error) {
	// client_credentials tokens act on behalf of the user owning the client
	userID := data.UserID
	if userID == "" {
		userID = data.Client.GetUserID()
	}
	if userID == "" {
		return "", "", fmt.Errorf("cannot generate token: no user ID available")
	}

	// The role always comes from the database, never from the request.
	user, err := g.lookupUser(ctx, userID)
	if err != nil {
		return "", "", err
	}

	createdAt := data.TokenInfo.GetAccessCreateAt()
	claims := jwt.MapClaims{
		"aud":       data.Client.GetID(),
		"iat":       createdAt.Unix(),
		"exp":       createdAt.Add(data.TokenInfo.GetAccessExpiresIn()).Unix(),
		ClaimUserID: userID,
		ClaimRole:   roleOf(user),
	}
	if scope := data.TokenInfo.GetScope(); scope != "" {
		claims["scope"] = scope
	}

	access, err := g.issuer.sign(claims)
	if err != nil {
		return "", "", err
	}

	refresh := ""
	if isGenRefresh {
		refresh, err = g.issuer.sign(jwt.MapClaims{
			"id":  access,
			"exp": data.TokenInfo.GetRefreshCreateAt().Add(data.TokenInfo.GetRefreshExpiresIn()).Unix(),
		})
		if err != nil {
			return "", "", err
		}
	}
	return access, refresh, nil
}

func (g *CustomJWTAccessGenerate) lookupUser(ctx context.Context, userIDStr string) (*models.User, error) {
	userID, err := strconv.ParseUint(userIDStr, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}
	user, err := g.users.GetUserByID(ctx, uint(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %d: %w", userID, err)
	}
	return user, nil
}
