package config

import (
	"encoding/base64"
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	Port           string
	Env            string // either prod or dev, will disable https and few other bits
	BackendURL     string // base url of the recruitment REST API
	BackendTimeout time.Duration
	SessionKey     []byte
	JwtSigningKey  []byte
	SiteName       string
	SiteHost       string
	SupportEmail   string // displayed on the site for support queries
	SentryDSN      string
	RedisURL       string         // optional, enables the shared login limiter
	RowsPerPage    int            // configures how many rows are shown per table page
	CacheTTL       time.Duration  // lifetime of cached backend reads
	DraftTTL       time.Duration  // how long an untouched cv draft is kept
	TrustedProxies []netip.Prefix // peers whose X-Forwarded-For header is believed
	LoginAttempts  int
	LoginWindow    time.Duration
	URLProtocol    string
}

// LoadConfig reads the portal configuration from the environment. A .env file
// in the working directory is loaded first when present.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return Config{}, errors.Wrap(err, "unable to load .env file")
	}
	port := os.Getenv("PORT")
	if port == "" {
		return Config{}, fmt.Errorf("PORT cannot be empty")
	}
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		return Config{}, fmt.Errorf("ENV cannot be empty")
	}
	backendURL := strings.TrimRight(strings.TrimSpace(os.Getenv("BACKEND_URL")), "/")
	if backendURL == "" {
		return Config{}, fmt.Errorf("BACKEND_URL cannot be empty")
	}
	backendTimeout, err := durationOrDefault("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}
	sessionKeyString := os.Getenv("SESSION_KEY")
	if sessionKeyString == "" {
		return Config{}, fmt.Errorf("SESSION_KEY cannot be empty")
	}
	sessionKeyBytes, err := base64.StdEncoding.DecodeString(sessionKeyString)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode session key to bytes")
	}
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		return Config{}, fmt.Errorf("JWT_SIGNING_KEY cannot be empty")
	}
	jwtSigningKeyBytes, err := base64.StdEncoding.DecodeString(jwtSigningKey)
	if err != nil {
		return Config{}, errors.Wrapf(err, "unable to decode jwt signing key to bytes")
	}
	siteName := os.Getenv("SITE_NAME")
	if siteName == "" {
		return Config{}, fmt.Errorf("SITE_NAME cannot be empty")
	}
	siteHost := os.Getenv("SITE_HOST")
	if siteHost == "" {
		return Config{}, fmt.Errorf("SITE_HOST cannot be empty")
	}
	supportEmail := os.Getenv("SUPPORT_EMAIL")
	if supportEmail == "" {
		return Config{}, fmt.Errorf("SUPPORT_EMAIL cannot be empty")
	}
	rowsPerPage, err := intOrDefault("ROWS_PER_PAGE", 10)
	if err != nil {
		return Config{}, err
	}
	if rowsPerPage <= 0 {
		return Config{}, fmt.Errorf("ROWS_PER_PAGE must be positive")
	}
	cacheTTL, err := durationOrDefault("CACHE_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	draftTTL, err := durationOrDefault("CV_DRAFT_TTL", 24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	if draftTTL <= 0 {
		return Config{}, fmt.Errorf("CV_DRAFT_TTL must be positive")
	}
	trustedProxies, err := prefixes("TRUSTED_PROXIES")
	if err != nil {
		return Config{}, err
	}
	loginAttempts, err := intOrDefault("LOGIN_ATTEMPTS", 10)
	if err != nil {
		return Config{}, err
	}
	loginWindow, err := durationOrDefault("LOGIN_WINDOW", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	urlProtocol := "http://"
	if !strings.EqualFold(env, "dev") {
		urlProtocol = "https://"
	}

	return Config{
		Port:           port,
		Env:            env,
		BackendURL:     backendURL,
		BackendTimeout: backendTimeout,
		SessionKey:     sessionKeyBytes,
		JwtSigningKey:  jwtSigningKeyBytes,
		SiteName:       siteName,
		SiteHost:       siteHost,
		SupportEmail:   supportEmail,
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RowsPerPage:    rowsPerPage,
		CacheTTL:       cacheTTL,
		DraftTTL:       draftTTL,
		TrustedProxies: trustedProxies,
		LoginAttempts:  loginAttempts,
		LoginWindow:    loginWindow,
		URLProtocol:    urlProtocol,
	}, nil
}

func intOrDefault(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to convert %s to int", key)
	}
	return n, nil
}

func durationOrDefault(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "unable to parse %s as duration", key)
	}
	return d, nil
}

// prefixes reads a comma separated list of IP addresses and CIDR ranges. A
// bare address is a single host range.
func prefixes(key string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, raw := range strings.Split(os.Getenv(key), ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, errors.Wrapf(err, "unable to parse %s", key)
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse %s", key)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
