package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/franciscosanchezn/gin-food-delivery-api/internal/models"
	"github.com/franciscosanchezn/gin-food-delivery-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/go-oauth2/oauth2/v4"
	oautherrors "github.com/go-oauth2/oauth2/v4/errors"
	"github.com/go-oauth2/oauth2/v4/manage"
	"github.com/go-oauth2/oauth2/v4/server"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// OAuthService serves the OAuth2 token endpoint with the password grant
// (first party web client) and the client_credentials grant (API clients).
type OAuthService struct {
	server  *server.Server
	clients *GormClientStore
	users   services.UserService
}

func NewOAuthService(db *gorm.DB, issuer *TokenIssuer, users services.UserService) *OAuthService {
	manager := manage.NewDefaultManager()
	manager.SetPasswordTokenCfg(&manage.Config{AccessTokenExp: issuer.TTL()})
	manager.SetClientTokenCfg(&manage.Config{AccessTokenExp: issuer.TTL()})
	manager.MapAccessGenerate(NewCustomJWTAccessGenerate(issuer, users))
	manager.MustTokenStorage(NewGormTokenStore(db), nil)

	clients := NewGormClientStore(db)
	manager.MapClientStorage(clients)

	o := &OAuthService{clients: clients, users: users}

	srv := server.NewDefaultServer(manager)
	srv.SetAllowedGrantType(oauth2.PasswordCredentials, oauth2.ClientCredentials)
	srv.SetClientInfoHandler(server.ClientFormHandler)
	srv.SetClientAuthorizedHandler(o.clientAuthorized)
	srv.SetPasswordAuthorizationHandler(o.authenticatePassword)
	srv.SetInternalErrorHandler(func(err error) *oautherrors.Response {
		log.WithError(err).Error("OAuth2 internal error")
		return nil
	})
	o.server = srv
	return o
}

func (o *OAuthService) GetServer() *server.Server {
	return o.server
}

// HandleToken issues an access token
// @Summary OAuth2 token endpoint
// @Description Obtain an access token with the password or client_credentials grant
// @Tags auth
// @Accept application/x-www-form-urlencoded
// @Produce json
// @Param grant_type formData string true "password or client_credentials"
// @Param client_id formData string true "Client ID"
// @Param client_secret formData string true "Client secret"
// @Param username formData string false "User email (password grant)"
// @Param password formData string false "User password (password grant)"
// @Param scope formData string false "Requested scope"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} models.OAuth2Error
// @Failure 401 {object} models.OAuth2Error
// @Router /oauth/token [post]
func (o *OAuthService) HandleToken(c *gin.Context) {
	if err := o.server.HandleTokenRequest(c.Writer, c.Request); err != nil {
		c.JSON(http.StatusBadRequest, models.NewOAuth2Error(models.ErrInvalidRequest, err.Error()))
	}
}

// clientAuthorized restricts each client to the grant types it was registered with.
func (o *OAuthService) clientAuthorized(clientID string, grant oauth2.GrantType) (bool, error) {
	client, err := o.clients.lookup(context.Background(), clientID)
	if err != nil {
		return false, oautherrors.ErrInvalidClient
	}
	if !client.AllowsGrant(grant.String()) {
		return false, oautherrors.ErrUnauthorizedClient
	}
	return true, nil
}

func (o *OAuthService) authenticatePassword(ctx context.Context, clientID, username, password string) (string, error) {
	user, err := o.users.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.WithField("client_id", clientID).Warn("Password grant rejected")
			return "", oautherrors.ErrInvalidGrant
		}
		return "", err
	}
	return strconv.FormatUint(uint64(user.ID), 10), nil
}
