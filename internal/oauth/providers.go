package oauth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dimitrije/fitlog/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// profileFunc reads the signed-in account from the provider API using an
// authorized client.
type profileFunc func(client *http.Client, apiBase string) (*UserInfo, error)

// provider is an OAuth2 code flow plus a provider specific profile lookup.
type provider struct {
	name    string
	config  *oauth2.Config
	apiBase string
	profile profileFunc
}

func newProvider(name string, cfg config.OAuthConfig, endpoint oauth2.Endpoint, scopes []string, apiBase string, profile profileFunc) *provider {
	return &provider{
		name: name,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		apiBase: apiBase,
		profile: profile,
	}
}

func NewGitHubProvider(cfg config.OAuthConfig) Provider {
	return newProvider("github", cfg, github.Endpoint,
		[]string{"read:user", "user:email"},
		"https://api.github.com", githubProfile)
}

func NewGoogleProvider(cfg config.OAuthConfig) Provider {
	return newProvider("google", cfg, google.Endpoint,
		[]string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		"https://www.googleapis.com/oauth2/v2", googleProfile)
}

func (p *provider) Name() string {
	return p.name
}

func (p *provider) GetConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (p *provider) ExchangeCode(ctx context.Context, code string) (*UserInfo, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to exchange code: %w", p.name, err)
	}

	info, err := p.profile(p.config.Client(ctx, token), p.apiBase)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.name, err)
	}
	info.Provider = p.name
	info.Email = strings.ToLower(info.Email)
	return info, nil
}

func githubProfile(client *http.Client, apiBase string) (*UserInfo, error) {
	var account struct {
		ID        int64  `json:"id"`
		Login     string `json:"login"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(client, apiBase+"/user", &account); err != nil {
		return nil, err
	}

	info := &UserInfo{
		ID:        strconv.FormatInt(account.ID, 10),
		Name:      account.Name,
		Email:     account.Email,
		AvatarURL: account.AvatarURL,
	}
	if info.Name == "" {
		info.Name = account.Login
	}
	if info.Email != "" {
		return info, nil
	}

	// private profile emails are only listed on /user/emails
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(client, apiBase+"/user/emails", &emails); err != nil {
		return nil, err
	}
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if info.Email == "" || e.Primary {
			info.Email = e.Email
		}
	}
	if info.Email == "" {
		return nil, fmt.Errorf("account has no verified email")
	}
	return info, nil
}

func googleProfile(client *http.Client, apiBase string) (*UserInfo, error) {
	var account struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	if err := getJSON(client, apiBase+"/userinfo", &account); err != nil {
		return nil, err
	}
	if !account.VerifiedEmail {
		return nil, fmt.Errorf("account email is not verified")
	}
	return &UserInfo{
		ID:        account.ID,
		Name:      account.Name,
		Email:     account.Email,
		AvatarURL: account.Picture,
	}, nil
}
