package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535] (got %d)", c.Server.Port)
	}

	if c.Auth.AccessTTL <= 0 {
		return fmt.Errorf("auth.access_ttl must be > 0 (got %v)", c.Auth.AccessTTL)
	}

	if strings.Contains(c.Storage.CDNDomain, "://") {
		return fmt.Errorf("storage.cdn_domain must be a bare host, not a URL (got %q)", c.Storage.CDNDomain)
	}

	if c.Storage.PresignTTL <= 0 {
		return fmt.Errorf("storage.presign_ttl must be > 0 (got %v)", c.Storage.PresignTTL)
	}

	return nil
}
