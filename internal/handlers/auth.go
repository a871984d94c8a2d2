package handlers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dimitrije/fitlog/internal/config"
	"github.com/dimitrije/fitlog/internal/oauth"
	"github.com/dimitrije/fitlog/internal/services"
	"github.com/dimitrije/fitlog/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
	log "github.com/sirupsen/logrus"
)

const (
	stateTTL    = 10 * time.Minute
	authCodeTTL = 30 * time.Second
)

type AuthHandler struct {
	cfg          *config.Config
	providers    *oauth.Registry
	userService  UserServiceInterface
	tokenService TokenServiceInterface
	jwtService   JWTServiceInterface
	states       sync.Map
	authCodes    sync.Map
}

type stateData struct {
	expiresAt time.Time
}

type authCodeData struct {
	userID    uuid.UUID
	expiresAt time.Time
}

func NewAuthHandler(
	cfg *config.Config,
	providers *oauth.Registry,
	userService UserServiceInterface,
	tokenService TokenServiceInterface,
	jwtService JWTServiceInterface,
) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		providers:    providers,
		userService:  userService,
		tokenService: tokenService,
		jwtService:   jwtService,
	}
}

// RunCleanup drops expired OAuth states and one-time codes until ctx ends.
func (h *AuthHandler) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			h.sweep(now)
		}
	}
}

func (h *AuthHandler) sweep(now time.Time) {
	h.states.Range(func(key, value any) bool {
		if sd, ok := value.(stateData); ok && now.After(sd.expiresAt) {
			h.states.Delete(key)
		}
		return true
	})
	h.authCodes.Range(func(key, value any) bool {
		if acd, ok := value.(authCodeData); ok && now.After(acd.expiresAt) {
			h.authCodes.Delete(key)
		}
		return true
	})
}

func (h *AuthHandler) Register(c *drift.Context) {
	var req dto.RegisterRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		respondError(c, err, "failed to register")
		return
	}

	resp, err := h.issueTokens(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("failed to issue tokens")
		c.InternalServerError("failed to generate tokens")
		return
	}
	_ = c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *drift.Context) {
	var req dto.LoginRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.BadRequest("email and password are required")
		return
	}

	user, err := h.userService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrAuthenticationFailed) {
		c.Unauthorized(err.Error())
		return
	}
	if err != nil {
		respondError(c, err, "failed to log in")
		return
	}

	resp, err := h.issueTokens(c.Request.Context(), user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("failed to issue tokens")
		c.InternalServerError("failed to generate tokens")
		return
	}
	_ = c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetConsentURL(c *drift.Context) {
	provider := c.Param("provider")

	p, ok := h.providers.Get(provider)
	if !ok {
		c.BadRequest("unsupported provider: " + provider)
		return
	}

	state, err := oauth.GenerateState()
	if err != nil {
		c.InternalServerError("failed to generate state")
		return
	}

	h.states.Store(state, stateData{expiresAt: time.Now().Add(stateTTL)})

	_ = c.JSON(http.StatusOK, dto.ConsentURLResponse{
		URL: p.GetConsentURL(state),
	})
}

func (h *AuthHandler) Callback(c *drift.Context) {
	p, ok := h.providers.Get(c.Param("provider"))
	if !ok {
		h.redirectWithError(c, "unsupported provider")
		return
	}

	state := c.QueryParam("state")
	if state == "" {
		h.redirectWithError(c, "missing state parameter")
		return
	}

	sd, ok := h.states.LoadAndDelete(state)
	if !ok {
		h.redirectWithError(c, "invalid or expired state")
		return
	}
	if sdTyped, ok := sd.(stateData); !ok || time.Now().After(sdTyped.expiresAt) {
		h.redirectWithError(c, "state expired")
		return
	}

	code := c.QueryParam("code")
	if code == "" {
		h.redirectWithError(c, "missing authorization code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	userInfo, err := p.ExchangeCode(ctx, code)
	if err != nil {
		log.WithError(err).WithField("provider", p.Name()).Warn("oauth code exchange failed")
		h.redirectWithError(c, "failed to sign in with "+p.Name())
		return
	}

	user, err := h.userService.FindOrCreateFromOAuth(ctx, userInfo)
	if errors.Is(err, services.ErrUserAlreadyExists) {
		h.redirectWithError(c, "this email is already registered with another sign-in method")
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to create oauth user")
		h.redirectWithError(c, "failed to create user")
		return
	}

	authCode, err := oauth.GenerateState()
	if err != nil {
		h.redirectWithError(c, "failed to generate auth code")
		return
	}

	h.authCodes.Store(authCode, authCodeData{
		userID:    user.ID,
		expiresAt: time.Now().Add(authCodeTTL),
	})

	redirectURL := fmt.Sprintf("%s?code=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(authCode))
	h.renderCallbackPage(c, redirectURL, "")
}

// ExchangeCode trades the one-time code from the OAuth callback for tokens.
func (h *AuthHandler) ExchangeCode(c *drift.Context) {
	var req dto.ExchangeCodeRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.Code == "" {
		c.BadRequest("code is required")
		return
	}

	acd, ok := h.authCodes.LoadAndDelete(req.Code)
	if !ok {
		c.Unauthorized("invalid or expired code")
		return
	}

	codeData, ok := acd.(authCodeData)
	if !ok || time.Now().After(codeData.expiresAt) {
		c.Unauthorized("code expired")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, codeData.userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	resp, err := h.issueTokens(ctx, user.ID, user.Email)
	if err != nil {
		log.WithError(err).Error("failed to issue tokens")
		c.InternalServerError("failed to generate tokens")
		return
	}
	_ = c.JSON(http.StatusOK, resp)
}

// RefreshToken rotates the refresh token; the presented one stops working.
func (h *AuthHandler) RefreshToken(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken == "" {
		c.BadRequest("refresh_token is required")
		return
	}

	userID, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.Unauthorized("invalid refresh token")
		return
	}

	ctx := c.Request.Context()

	user, err := h.userService.GetByID(ctx, userID)
	if err != nil {
		c.Unauthorized("user not found")
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		c.InternalServerError("failed to generate tokens")
		return
	}

	oldHash := services.HashToken(req.RefreshToken)
	newHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	err = h.tokenService.RotateRefreshToken(ctx, user.ID, oldHash, newHash, expiresAt)
	if errors.Is(err, services.ErrInvalidRefreshToken) {
		c.Unauthorized("refresh token not found or expired")
		return
	}
	if err != nil {
		log.WithError(err).Error("failed to rotate refresh token")
		c.InternalServerError("failed to store refresh token")
		return
	}

	_ = c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	})
}

func (h *AuthHandler) Logout(c *drift.Context) {
	var req dto.RefreshTokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.BadRequest("invalid request body")
		return
	}

	if req.RefreshToken != "" {
		tokenHash := services.HashToken(req.RefreshToken)
		if err := h.tokenService.RevokeRefreshToken(c.Request.Context(), tokenHash); err != nil {
			log.WithError(err).Warn("failed to revoke refresh token")
		}
	}

	_ = c.JSON(http.StatusOK, notice("Logged out", dto.NoticeSuccess))
}

func (h *AuthHandler) LogoutAll(c *drift.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.tokenService.RevokeAllUserTokens(c.Request.Context(), userID); err != nil {
		c.InternalServerError("failed to revoke tokens")
		return
	}

	_ = c.JSON(http.StatusOK, notice("All sessions logged out", dto.NoticeSuccess))
}

func (h *AuthHandler) issueTokens(ctx context.Context, userID uuid.UUID, email string) (*dto.TokenResponse, error) {
	tokenPair, err := h.jwtService.GenerateTokenPair(userID, email)
	if err != nil {
		return nil, err
	}

	tokenHash := services.HashToken(tokenPair.RefreshToken)
	expiresAt := time.Now().Add(h.jwtService.RefreshExpiry())
	if err := h.tokenService.StoreRefreshToken(ctx, userID, tokenHash, expiresAt); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

func (h *AuthHandler) redirectWithError(c *drift.Context, errMsg string) {
	redirectURL := fmt.Sprintf("%s?error=%s", h.cfg.FrontendCallbackURL, url.QueryEscape(errMsg))
	h.renderCallbackPage(c, redirectURL, errMsg)
}

// renderCallbackPage sends the browser on to the frontend. A non-empty
// errMsg renders the failure variant.
func (h *AuthHandler) renderCallbackPage(c *drift.Context, target, errMsg string) {
	title := "Signed in"
	heading := "You're signed in"
	subtitle := "Taking you back to fitlog..."
	statusCode := http.StatusOK

	if errMsg != "" {
		title = "Sign-in failed"
		heading = "Sign-in failed"
		subtitle = html.EscapeString(errMsg)
		statusCode = http.StatusBadRequest
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: system-ui, sans-serif; background: #f9fafb; color: #374151; margin: 0; padding: 40px 20px; }
        .card { max-width: 400px; margin: 0 auto; background: #fff; border: 1px solid #e5e7eb; border-radius: 8px; padding: 32px; text-align: center; }
        h1 { font-size: 20px; margin: 0 0 8px 0; }
        p { color: #6b7280; font-size: 14px; margin: 0; }
    </style>
</head>
<body>
    <div class="card">
        <h1>%s</h1>
        <p>%s</p>
    </div>
    <script>window.location.href = %q;</script>
</body>
</html>`, title, heading, subtitle, target)

	_ = c.HTML(statusCode, page)
}
