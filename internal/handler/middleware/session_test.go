//go:build unit

package middleware_test

import (
	"net/http"
	"testing"
	"time"

	"storefront/internal/handler/middleware"
	"storefront/internal/pkg/config"
	"storefront/internal/pkg/session"
	httptestutil "storefront/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type SessionMiddlewareTestSuite struct {
	suite.Suite
	router *gin.Engine
	tokens *session.Service
	cfg    config.Config
}

func (s *SessionMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = config.NewTestConfig()
	s.tokens = session.NewService(s.cfg.Session.Secret, s.cfg.Session.Duration)

	mw := middleware.NewSessionMiddleware(s.tokens, s.cfg)
	s.router = gin.New()
	s.router.GET("/whoami", mw.EnsureCart(), func(c *gin.Context) {
		cartID, ok := middleware.GetCartID(c)
		require.True(s.T(), ok)
		c.JSON(http.StatusOK, gin.H{"cartId": cartID})
	})
}

func TestSessionMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(SessionMiddlewareTestSuite))
}

func (s *SessionMiddlewareTestSuite) TestIssuesFreshSession() {
	w := httptestutil.PerformRequest(s.T(), s.router, http.MethodGet, "/whoami", nil)

	s.Equal(http.StatusOK, w.Code)
	cookie := httptestutil.ExtractCookie(w, s.cfg.Session.CookieName)
	s.Require().NotNil(cookie, "fresh request should receive a session cookie")
	s.True(cookie.HttpOnly)

	cartID, err := s.tokens.Validate(cookie.Value)
	s.Require().NoError(err)
	s.NotEqual(uuid.Nil, cartID)
}

func (s *SessionMiddlewareTestSuite) TestReusesValidSession() {
	cartID, token, err := s.tokens.Issue(time.Now())
	s.Require().NoError(err)

	w := httptestutil.PerformRequest(s.T(), s.router, http.MethodGet, "/whoami", nil,
		&http.Cookie{Name: s.cfg.Session.CookieName, Value: token})

	s.Equal(http.StatusOK, w.Code)
	// an existing session must not be rotated
	s.Nil(httptestutil.ExtractCookie(w, s.cfg.Session.CookieName))

	var resp struct {
		CartID uuid.UUID `json:"cartId"`
	}
	httptestutil.AssertSuccessResponse(s.T(), w, http.StatusOK, &resp)
	s.Equal(cartID, resp.CartID)
}

func (s *SessionMiddlewareTestSuite) TestReplacesExpiredSession() {
	oldCartID := uuid.New()
	expired, err := s.tokens.Token(oldCartID, time.Now().Add(-48*time.Hour))
	s.Require().NoError(err)

	w := httptestutil.PerformRequest(s.T(), s.router, http.MethodGet, "/whoami", nil,
		&http.Cookie{Name: s.cfg.Session.CookieName, Value: expired})

	s.Equal(http.StatusOK, w.Code)
	cookie := httptestutil.ExtractCookie(w, s.cfg.Session.CookieName)
	s.Require().NotNil(cookie, "expired session should be replaced")

	newCartID, err := s.tokens.Validate(cookie.Value)
	s.Require().NoError(err)
	s.NotEqual(oldCartID, newCartID, "expired sessions never resurrect the old cart")
}

func (s *SessionMiddlewareTestSuite) TestReplacesGarbageCookie() {
	w := httptestutil.PerformRequest(s.T(), s.router, http.MethodGet, "/whoami", nil,
		&http.Cookie{Name: s.cfg.Session.CookieName, Value: "junk"})

	s.Equal(http.StatusOK, w.Code)
	s.NotNil(httptestutil.ExtractCookie(w, s.cfg.Session.CookieName))
}
