package config

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/pkg/errors"
)

const (
	EnvDevelopment = "DEV"
	EnvProduction  = "PRODUCTION"
)

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetJWTSecret() string
	GetAdminPassword() string
	GetEmailAPIKey() string
	GetEmailAPIURL() string
	GetEmailFromDomain() string
	GetDataFile() string
	GetForceHTTPS() bool
	GetTrustedProxies() []netip.Prefix
}

// EnvVars holds the values read from the process environment.
type EnvVars struct {
	Port            string `env:"PORT" envDefault:"8080"`
	AppName         string `env:"APP_NAME" envDefault:"Hostel Server"`
	Env             string `env:"ENV" envDefault:"DEV"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret       string `env:"JWT_SECRET"`
	AdminPassword   string `env:"ADMIN_PASSWORD"`
	EmailAPIKey     string `env:"RESEND_API_KEY"`
	EmailAPIURL     string `env:"EMAIL_API_URL" envDefault:"https://api.resend.com/emails"`
	EmailFromDomain string `env:"EMAIL_FROM_DOMAIN" envDefault:"localhost"`
	DataFile        string `env:"DATA_FILE"`
	ForceHTTPS      bool   `env:"FORCE_HTTPS" envDefault:"true"`
	// Addresses or CIDR ranges of reverse proxies whose X-Forwarded-For is believed
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return EnvDevelopment
	}
	return strings.ToUpper(e.Env)
}

// IsProduction reports whether secure-only cookies and HTTPS enforcement apply.
// Anything that is not a local/dev environment counts as production.
func (e EnvVars) IsProduction() bool {
	switch e.GetEnv() {
	case EnvDevelopment, "DEVELOPMENT", "LOCAL", "TEST":
		return false
	}
	return true
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetJWTSecret() string {
	return e.JWTSecret
}

func (e EnvVars) GetAdminPassword() string {
	return e.AdminPassword
}

func (e EnvVars) GetEmailAPIKey() string {
	return e.EmailAPIKey
}

func (e EnvVars) GetEmailAPIURL() string {
	return e.EmailAPIURL
}

func (e EnvVars) GetEmailFromDomain() string {
	return e.EmailFromDomain
}

func (e EnvVars) GetDataFile() string {
	return e.DataFile
}

func (e EnvVars) GetForceHTTPS() bool {
	return e.ForceHTTPS
}

func (e EnvVars) GetTrustedProxies() []netip.Prefix {
	prefixes, _ := parseTrustedProxies(e.TrustedProxies)
	return prefixes
}

// parseTrustedProxies accepts bare addresses ("10.0.0.7") and CIDR ranges
// ("10.0.0.0/8"). Blank entries are skipped.
func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid TRUSTED_PROXIES entry %q", entry)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid TRUSTED_PROXIES entry %q", entry)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
