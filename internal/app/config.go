package app

import (
	"strings"
	"time"

	"github.com/timewell/timewell-backend/internal/logger"
	"github.com/timewell/timewell-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	AllowOrigins    []string

	CoachModel          string
	CoachTemperature    float64
	CoachMaxTokens      int
	CoachTimeoutSeconds int
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	origins := []string{}
	for _, o := range strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000,http://localhost:5173", log), ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		AllowOrigins:    origins,

		CoachModel:          utils.GetEnv("OPENAI_MODEL", "gpt-4o-mini", log),
		CoachTemperature:    utils.GetEnvAsFloat("COACH_TEMPERATURE", 0.7, log),
		CoachMaxTokens:      utils.GetEnvAsInt("COACH_MAX_TOKENS", 1000, log),
		CoachTimeoutSeconds: utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 60, log),
	}
}
