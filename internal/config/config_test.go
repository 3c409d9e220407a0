package config_test

import (
	"net/netip"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jrsteele09/go-hostel-server/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")

	_, err := config.New()
	require.ErrorIs(t, err, config.ErrMissingJWTSecret)
}

func TestNew_RequiresAdminPassword(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "")

	_, err := config.New()
	require.ErrorIs(t, err, config.ErrMissingAdminPassword)
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "")
	t.Setenv("ALLOWED_ORIGINS", "https://hostel.example.edu, https://admin.example.edu")

	c, err := config.New()
	require.NoError(t, err)
	require.Equal(t, ":9090", c.GetPort())
	require.Equal(t, config.EnvDevelopment, c.GetEnv())
	require.False(t, c.IsProduction())
	require.Equal(t, "secret", c.GetJWTSecret())
	require.Equal(t, 5, c.GetMaxLoginAttempts())
	require.Equal(t, 15*time.Minute, c.GetLockoutWindow())
	require.Equal(t, 7*24*time.Hour, c.GetStudentSessionExpiry())
	require.Equal(t, 24*time.Hour, c.GetAdminSessionExpiry())
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("https://admin.example.edu"))
	require.False(t, c.GetAllowedOrigins().IsAllowedOrigin("https://evil.example.com"))
}

func TestNew_ProductionFlag(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("ENV", "production")

	c, err := config.New()
	require.NoError(t, err)
	require.True(t, c.IsProduction())
}

func TestNew_LoadsEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")
	os.Unsetenv("JWT_SECRET")
	os.Unsetenv("ADMIN_PASSWORD")

	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nADMIN_PASSWORD=file-admin\n"), 0o600))

	c, err := config.New(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", c.GetJWTSecret())
	require.Equal(t, "file-admin", c.GetAdminPassword())
}

func TestNew_TrustedProxies(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.7, 192.168.1.0/24")

	c, err := config.New()
	require.NoError(t, err)

	proxies := c.GetTrustedProxies()
	require.Len(t, proxies, 2)
	require.True(t, proxies[0].Contains(netip.MustParseAddr("10.0.0.7")))
	require.False(t, proxies[0].Contains(netip.MustParseAddr("10.0.0.8")))
	require.True(t, proxies[1].Contains(netip.MustParseAddr("192.168.1.200")))
}

func TestNew_NoTrustedProxiesByDefault(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("TRUSTED_PROXIES", "")

	c, err := config.New()
	require.NoError(t, err)
	require.Empty(t, c.GetTrustedProxies())
}

func TestNew_RejectsInvalidTrustedProxy(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("TRUSTED_PROXIES", "proxy.internal")

	_, err := config.New()
	require.ErrorContains(t, err, "TRUSTED_PROXIES")
}
