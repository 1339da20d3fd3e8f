// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package settings loads the broker's runtime configuration.
//
// Every setting can be overridden with an environment variable named
// APP_SETTING_<NAME>, e.g. APP_SETTING_SCOPE_WHITELIST. Values that are not
// overridden fall back to the defaults below.
package settings

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is prepended (with an underscore) to every setting name when
// resolving environment overrides.
const envPrefix = "APP_SETTING"

// Backend selector tokens. Backends are enumerated in small registries and
// selected at startup; see the factory in each backend package.
const (
	// AuthBackendKerberos authenticates callers with a GSSAPI/SPNEGO handshake.
	AuthBackendKerberos = "kerberos"

	// CacheBackendRedis stores the remote access-token cache in Redis.
	CacheBackendRedis = "redis"
	// CacheBackendMemory stores the remote access-token cache in process
	// memory. Suitable for tests and single-node deployments only.
	CacheBackendMemory = "memory"

	// DatabaseBackendMemory stores records in process memory.
	DatabaseBackendMemory = "memory"
	// DatabaseBackendRedis stores records in Redis.
	DatabaseBackendRedis = "redis"
	// DatabaseBackendSQLite stores records in a SQLite database file.
	DatabaseBackendSQLite = "sqlite"

	// EncryptionBackendCloudKMS encrypts with Cloud KMS keys.
	EncryptionBackendCloudKMS = "cloudkms"
	// EncryptionBackendDummy is a trivially reversible envelope for tests
	// and local development. Do not use in production.
	EncryptionBackendDummy = "dummy"

	// ProviderBackendShadow mints tokens for per-user shadow service accounts.
	ProviderBackendShadow = "shadow"
	// ProviderBackendDomainWideDelegation mints tokens under the broker's
	// domain-wide delegation authority.
	ProviderBackendDomainWideDelegation = "dwd"
	// ProviderBackendRefreshToken mints tokens from stored refresh grants.
	ProviderBackendRefreshToken = "refresh"
)

// Settings holds the full broker configuration.
type Settings struct {
	// NumServerThreads is the number of gRPC stream workers.
	NumServerThreads int `mapstructure:"num_server_threads"`

	ServerHost string `mapstructure:"server_host"`
	ServerPort int    `mapstructure:"server_port"`

	// TLSKeyPath and TLSCrtPath hold the transport credentials. When both
	// are empty the server listens in plaintext (development only).
	TLSKeyPath string `mapstructure:"tls_key_path"`
	TLSCrtPath string `mapstructure:"tls_crt_path"`

	// KeytabPath identifies the GSSAPI acceptor credentials.
	KeytabPath string `mapstructure:"keytab_path"`

	// BrokerServiceName and BrokerServiceHostname form the broker's
	// Kerberos service principal, <name>/<hostname>.
	BrokerServiceName     string `mapstructure:"broker_service_name"`
	BrokerServiceHostname string `mapstructure:"broker_service_hostname"`

	// DomainName is the cloud-domain suffix used when mapping a Kerberos
	// principal to a cloud identity.
	DomainName string `mapstructure:"domain_name"`

	// OriginRealm is the Kerberos realm of accepted clients.
	OriginRealm string `mapstructure:"origin_realm"`

	// ScopeWhitelist is the comma-separated list of OAuth scopes the broker
	// will mint tokens for.
	ScopeWhitelist string `mapstructure:"scope_whitelist"`

	// ProxyUserWhitelist is the comma-separated list of principals allowed
	// to obtain tokens on behalf of other users.
	ProxyUserWhitelist string `mapstructure:"proxy_user_whitelist"`

	// ShadowProject is the cloud project hosting the shadow service accounts.
	ShadowProject string `mapstructure:"shadow_project"`

	// ClientSecretPath points at the OAuth client secrets JSON used by the
	// refresh-token provider.
	ClientSecretPath string `mapstructure:"client_secret_path"`

	// JWTLife is the validity in seconds of the signed-JWT assertions.
	JWTLife int `mapstructure:"jwt_life"`

	// SessionMaximumLifetime and SessionRenewPeriod are in milliseconds.
	SessionMaximumLifetime int64 `mapstructure:"session_maximum_lifetime"`
	SessionRenewPeriod     int64 `mapstructure:"session_renew_period"`

	// SessionCleanupPeriod is the interval in seconds between sweeps of
	// expired sessions. Zero disables the sweep.
	SessionCleanupPeriod int `mapstructure:"session_cleanup_period"`

	// Cache TTLs in seconds.
	AccessTokenRemoteCacheTime int `mapstructure:"access_token_remote_cache_time"`
	AccessTokenLocalCacheTime  int `mapstructure:"access_token_local_cache_time"`

	// The three KMS key identifiers. Distinct keys so that leaking one does
	// not compromise the others.
	EncryptionRefreshTokenCryptoKey     string `mapstructure:"encryption_refresh_token_crypto_key"`
	EncryptionAccessTokenCacheCryptoKey string `mapstructure:"encryption_access_token_cache_crypto_key"`
	EncryptionDelegationTokenCryptoKey  string `mapstructure:"encryption_delegation_token_crypto_key"`

	// Backend selectors.
	AuthBackend       string `mapstructure:"auth_backend"`
	CacheBackend      string `mapstructure:"cache_backend"`
	DatabaseBackend   string `mapstructure:"database_backend"`
	EncryptionBackend string `mapstructure:"encryption_backend"`
	ProviderBackend   string `mapstructure:"provider_backend"`

	// Redis connection settings, shared syntax for the cache and database
	// backends so they can point at different instances.
	RedisCacheHost string `mapstructure:"redis_cache_host"`
	RedisCachePort int    `mapstructure:"redis_cache_port"`
	RedisCacheDB   int    `mapstructure:"redis_cache_db"`

	RedisDatabaseHost string `mapstructure:"redis_database_host"`
	RedisDatabasePort int    `mapstructure:"redis_database_port"`
	RedisDatabaseDB   int    `mapstructure:"redis_database_db"`

	// SQLitePath is the database file used by the sqlite database backend.
	SQLitePath string `mapstructure:"sqlite_path"`

	// LoggingLevel is the base level for the structured logger.
	LoggingLevel string `mapstructure:"logging_level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("num_server_threads", 10)
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", 5000)
	v.SetDefault("tls_key_path", "")
	v.SetDefault("tls_crt_path", "")
	v.SetDefault("keytab_path", "/secrets/broker.keytab")
	v.SetDefault("broker_service_name", "broker")
	v.SetDefault("broker_service_hostname", "")
	v.SetDefault("domain_name", "")
	v.SetDefault("origin_realm", "")
	v.SetDefault("scope_whitelist", "https://www.googleapis.com/auth/devstorage.read_write")
	v.SetDefault("proxy_user_whitelist", "")
	v.SetDefault("shadow_project", "")
	v.SetDefault("client_secret_path", "/secrets/client_secret.json")
	v.SetDefault("jwt_life", 30)
	v.SetDefault("session_maximum_lifetime", 7*24*3600*1000)
	v.SetDefault("session_renew_period", 24*3600*1000)
	v.SetDefault("session_cleanup_period", 3600)
	v.SetDefault("access_token_remote_cache_time", 60)
	v.SetDefault("access_token_local_cache_time", 30)
	v.SetDefault("encryption_refresh_token_crypto_key", "refresh-token-key")
	v.SetDefault("encryption_access_token_cache_crypto_key", "access-token-cache-key")
	v.SetDefault("encryption_delegation_token_crypto_key", "delegation-token-key")
	v.SetDefault("auth_backend", AuthBackendKerberos)
	v.SetDefault("cache_backend", CacheBackendRedis)
	v.SetDefault("database_backend", DatabaseBackendSQLite)
	v.SetDefault("encryption_backend", EncryptionBackendCloudKMS)
	v.SetDefault("provider_backend", ProviderBackendRefreshToken)
	v.SetDefault("redis_cache_host", "localhost")
	v.SetDefault("redis_cache_port", 6379)
	v.SetDefault("redis_cache_db", 0)
	v.SetDefault("redis_database_host", "localhost")
	v.SetDefault("redis_database_port", 6379)
	v.SetDefault("redis_database_db", 1)
	v.SetDefault("sqlite_path", "/var/lib/broker/broker.db")
	v.SetDefault("logging_level", "info")
}

// Load resolves the settings from defaults and APP_SETTING_* environment
// variables.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &s, nil
}

// ScopeWhitelistSet returns the scope whitelist as a set.
func (s *Settings) ScopeWhitelistSet() map[string]struct{} {
	return commaSet(s.ScopeWhitelist)
}

// ProxyUserWhitelistSet returns the impersonation whitelist as a set.
func (s *Settings) ProxyUserWhitelistSet() map[string]struct{} {
	return commaSet(s.ProxyUserWhitelist)
}

func commaSet(csv string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, entry := range strings.Split(csv, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			out[entry] = struct{}{}
		}
	}
	return out
}
