package config

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string `mapstructure:"PORT"`
	DatabasePath                  string `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string `mapstructure:"JWT_SECRET"`
	AdminEmail                    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword                 string `mapstructure:"ADMIN_PASSWORD"`
	UploadDir                     string `mapstructure:"UPLOAD_DIR"`
	PublicBaseURL                 string `mapstructure:"PUBLIC_BASE_URL"`
	FrontendURL                   string `mapstructure:"FRONTEND_URL"`
	DiscordClientID               string `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordGuildID                string `mapstructure:"DISCORD_GUILD_ID"`
	DiscordBotToken               string `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	SheetsWebhookURL              string `mapstructure:"SHEETS_WEBHOOK_URL"`
	CouponReportInactive          bool   `mapstructure:"COUPON_REPORT_INACTIVE"`
	EnableCORS                    bool   `mapstructure:"ENABLE_CORS"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_PATH", "agency.db")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("PUBLIC_BASE_URL", "http://127.0.0.1:8080")
	viper.SetDefault("FRONTEND_URL", "http://127.0.0.1:4000")
	viper.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")

	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ADMIN_EMAIL")
	viper.BindEnv("ADMIN_PASSWORD")
	viper.BindEnv("UPLOAD_DIR")
	viper.BindEnv("PUBLIC_BASE_URL")
	viper.BindEnv("FRONTEND_URL")
	viper.BindEnv("DISCORD_CLIENT_ID")
	viper.BindEnv("DISCORD_CLIENT_SECRET")
	viper.BindEnv("DISCORD_GUILD_ID")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("SHEETS_WEBHOOK_URL")
	viper.BindEnv("COUPON_REPORT_INACTIVE")
	viper.BindEnv("ENABLE_CORS")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logrus.Fatalf("Unable to decode config into struct: %v", err)
	}

	return &config
}
