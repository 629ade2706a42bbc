package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/sortie-unique/agency-api/internal/config"
	"github.com/sortie-unique/agency-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"
)

const TokenDuration = 24 * time.Hour

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:  db,
		cfg: cfg,
	}
}

// AuthInput carries the credentials a protected operation accepts: the
// session cookie set by a login handler, or an API key header.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie" required:"false"`
	APIKey string `header:"X-API-KEY" doc:"API key" required:"false"`
}

// Authorize resolves an AuthInput to a user ID. API keys win over cookies so
// scripted clients are not affected by a stale browser session.
func (h *AuthHandler) Authorize(ctx context.Context, input AuthInput) (uint, error) {
	if input.APIKey != "" {
		var keyModel models.APIKey
		if err := h.db.WithContext(ctx).Where("key = ?", input.APIKey).First(&keyModel).Error; err == nil {
			if keyModel.ExpiresAt != nil && time.Now().After(*keyModel.ExpiresAt) {
				return 0, huma.Error401Unauthorized("Unauthorized: API Key expired")
			}
			h.db.Model(&keyModel).Update("last_used_at", time.Now())
			return keyModel.UserID, nil
		}
	}

	tokenString := tokenFromCookieHeader(input.Cookie)
	if tokenString == "" {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}

	userID, _, err := h.parseToken(tokenString)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	return userID, nil
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" required:"true"`
		Password string `json:"password" required:"true"`
	}
}

type LoginOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	var user models.User
	if err := h.db.WithContext(ctx).Where("email = ?", input.Body.Email).First(&user).Error; err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if user.PasswordHash == "" {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Body.Password)); err != nil {
		return nil, huma.Error401Unauthorized("Invalid email or password")
	}

	token, err := h.GenerateToken(user.ID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to generate token")
	}

	res := &LoginOutput{SetCookie: sessionCookie(token, TokenDuration).String()}
	res.Body.Message = "Logged in"
	return res, nil
}

type LogoutOutput struct {
	SetCookie string `header:"Set-Cookie"`
	Body      struct {
		Message string `json:"message"`
	}
}

func (h *AuthHandler) HandleLogout(ctx context.Context, input *struct{}) (*LogoutOutput, error) {
	expired := sessionCookie("", -time.Hour)
	res := &LogoutOutput{SetCookie: expired.String()}
	res.Body.Message = "Logged out"
	return res, nil
}

type MeInput struct {
	AuthInput
}

type MeOutput struct {
	Body struct {
		ID       uint   `json:"id"`
		Email    string `json:"email"`
		Role     string `json:"role"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *MeInput) (*MeOutput, error) {
	userID, err := h.Authorize(ctx, input.AuthInput)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeOutput{}
	res.Body.ID = user.ID
	res.Body.Email = user.Email
	res.Body.Role = user.Role
	res.Body.Username = user.Username
	res.Body.Avatar = user.Avatar
	return res, nil
}

func (h *AuthHandler) HandleDiscordLogin(w http.ResponseWriter, r *http.Request) {
	url := h.oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleDiscordCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)

	// Guild membership gates admin access on the OAuth path.
	if h.cfg.DiscordGuildID != "" {
		guildsResp, err := client.Get(DiscordUserGuildsAPI)
		if err != nil {
			http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
			return
		}
		defer guildsResp.Body.Close()

		var guilds []struct {
			ID string `json:"id"`
		}
		if err := json.NewDecoder(guildsResp.Body).Decode(&guilds); err != nil {
			http.Error(w, "Failed to decode user guilds", http.StatusInternalServerError)
			return
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}

		if !isMember {
			http.Error(w, "Access denied: You are not a member of the required guild.", http.StatusForbidden)
			return
		}
	}

	resp, err := client.Get(DiscordUserAPI)
	if err != nil {
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}
	defer resp.Body.Close()

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Avatar   string `json:"avatar"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&discordUser); err != nil {
		http.Error(w, "Failed to decode user info", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := h.db.Where(models.User{DiscordID: discordUser.ID}).FirstOrInit(&user).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	user.Username = discordUser.Username
	user.Avatar = discordUser.Avatar
	if user.Email == "" {
		user.Email = discordUser.Email
	}
	if user.Role == "" {
		user.Role = models.RoleAdmin
	}

	if err := h.db.Save(&user).Error; err != nil {
		http.Error(w, "Failed to save user", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(jwtToken, TokenDuration))

	logrus.WithField("user_id", user.ID).Info("Admin logged in via Discord")
	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) GenerateToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     "auth_token",
		Value:    value,
		Expires:  time.Now().Add(maxAge),
		HttpOnly: true,
		Path:     "/",
		// Secure: true, // Uncomment in production with HTTPS
	}
}

func tokenFromCookieHeader(header string) string {
	if header == "" {
		return ""
	}
	// Let http.Request do the cookie header parsing.
	req := http.Request{Header: http.Header{"Cookie": {header}}}
	cookie, err := req.Cookie("auth_token")
	if err != nil {
		return ""
	}
	return cookie.Value
}
