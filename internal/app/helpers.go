package app

import (
	"strings"

	"github.com/mood-space/core/internal/config"
	jwtpkg "github.com/mood-space/core/internal/pkg/jwt"
	"go.uber.org/zap"
)

func applyRuntimeSettings(cfg *config.AppConfig, logger *zap.Logger) {
	if secret := strings.TrimSpace(cfg.JWTSecret); secret != "" {
		jwtpkg.SetSecret(secret)
	} else {
		logger.Warn("jwt_secret is empty, using built-in default secret")
	}
	if !cfg.Mail.Enable {
		logger.Warn("mail delivery is disabled, magic links will only be logged in development")
	}
}
