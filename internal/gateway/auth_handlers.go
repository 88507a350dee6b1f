package gateway

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/tokenstore"
)

// LoginForm is the browser login request
type LoginForm struct {
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,max=255"`
	RememberMe bool   `json:"rememberMe"`
	DeviceName string `json:"deviceName"`
}

// LoginResult is returned to the browser; tokens travel only in cookies
type LoginResult struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	User    *api.User `json:"user,omitempty"`
}

// login validates input, rate-limits by client IP, exchanges credentials
// with the upstream backend and moves the token pair into httpOnly cookies
// with rememberMe-dependent max-ages.
func (s *Server) login(c *gin.Context) {
	clientIP := c.ClientIP()

	if !s.loginLimiter.Allow(clientIP) {
		s.logger.Warn().Str("client_ip", clientIP).Msg("login rate limit exceeded")
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many login attempts. Try again in 15 minutes."})
		return
	}

	var form LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")

	deviceName := form.DeviceName
	if deviceName == "" {
		deviceName = "web"
	}

	resp, err := s.api.Login(c.Request.Context(), api.LoginRequest{
		Email:      strings.ToLower(strings.TrimSpace(form.Email)),
		Password:   form.Password,
		RememberMe: form.RememberMe,
		DeviceName: deviceName,
	})
	if err != nil {
		if errors.Is(err, api.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}
		s.logger.Error().Err(err).Str("client_ip", clientIP).Msg("upstream login failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "Login service unavailable"})
		return
	}

	s.loginLimiter.Reset(clientIP)
	s.setSessionCookies(c, resp.Token, resp.RefreshToken, form.RememberMe)

	s.logger.Info().
		Str("email", resp.User.Email).
		Str("role", resp.User.Role).
		Msg("user logged in")

	c.JSON(http.StatusOK, LoginResult{Success: true, Message: "Login successful", User: resp.User})
}

// refresh exchanges the refreshToken cookie for a new pair and re-sets
// both cookies. Failure clears the session cookies: terminal, re-login.
func (s *Server) refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(cookieRefreshToken)
	if err != nil || refreshToken == "" {
		s.clearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No refresh token"})
		return
	}

	rememberMe := false
	if v, err := c.Cookie(cookieRemember); err == nil {
		rememberMe = v == "1"
	}

	resp, err := s.api.RefreshToken(c.Request.Context(), refreshToken)
	if err != nil {
		s.logger.Warn().Err(err).Msg("token refresh rejected")
		s.clearSessionCookies(c)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired"})
		return
	}

	// Rotation assumed; keep the old refresh token if none was returned
	newRefresh := resp.RefreshToken
	if newRefresh == "" {
		newRefresh = refreshToken
	}
	s.setSessionCookies(c, resp.AccessToken, newRefresh, rememberMe)

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// logout invalidates the session upstream on a best-effort basis and
// always expires the session cookies.
func (s *Server) logout(c *gin.Context) {
	if token, err := extractToken(c); err == nil {
		if err := s.forwardLogout(c, token); err != nil {
			s.logger.Warn().Err(err).Msg("upstream logout failed")
		}
	}

	s.clearSessionCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// forwardLogout relays the logout to the upstream with the caller's token
func (s *Server) forwardLogout(c *gin.Context, token string) error {
	req, err := http.NewRequestWithContext(
		c.Request.Context(),
		http.MethodPost,
		s.upstreamBase+"/auth/logout",
		nil,
	)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", bearerPrefix+token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

// setSessionCookies writes the token pair with max-ages matching the
// rememberMe choice (access 7d/5h, refresh 30d/24h).
func (s *Server) setSessionCookies(c *gin.Context, token, refreshToken string, rememberMe bool) {
	accessTTL, refreshTTL := tokenstore.AccessTTLSession, tokenstore.RefreshTTLSession
	if rememberMe {
		accessTTL, refreshTTL = tokenstore.AccessTTLRemembered, tokenstore.RefreshTTLRemembered
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieToken, token, int(accessTTL.Seconds()), "/", "", s.secureCookies, true)
	c.SetCookie(cookieRefreshToken, refreshToken, int(refreshTTL.Seconds()), "/", "", s.secureCookies, true)

	remember := "0"
	if rememberMe {
		remember = "1"
	}
	c.SetCookie(cookieRemember, remember, int(refreshTTL.Seconds()), "/", "", s.secureCookies, true)
}

// clearSessionCookies expires every session cookie
func (s *Server) clearSessionCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(cookieToken, "", -1, "/", "", s.secureCookies, true)
	c.SetCookie(cookieRefreshToken, "", -1, "/", "", s.secureCookies, true)
	c.SetCookie(cookieRemember, "", -1, "/", "", s.secureCookies, true)
}
