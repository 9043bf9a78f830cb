package sqlaction

import (
	"fmt"
	"strings"
	"time"
)

// ConnectionConfig represents a parsed SQL Server connection string.
// It is built once by the connection-string parser and treated as read-only afterwards.
type ConnectionConfig struct {
	// RawConnectionString is the connection string exactly as supplied.
	// It is passed verbatim to SqlPackage as /TargetConnectionString.
	RawConnectionString string

	// MaskedConnectionString is RawConnectionString with secrets replaced, safe for logs.
	MaskedConnectionString string

	Server   string // Host name without "tcp:" prefix or port suffix
	Port     int
	Database string
	UserID   string
	Password string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	Encrypt                string
	TrustServerCertificate bool
	AppName                string
	ConnectTimeout         time.Duration
	AdditionalParams       map[string]string

	// Azure Entra ID parameters (service principal: UserID is the client ID)
	AzureTenantID string

	// CloudSQLInstance is a Google Cloud SQL instance connection name
	// (project:region:instance). When set, connections are dialed through
	// the Cloud SQL connector instead of plain TCP.
	CloudSQLInstance string
}

// ConnectionString returns the connection string as supplied by the user.
func (c *ConnectionConfig) ConnectionString() string {
	return c.RawConnectionString
}

// String returns a log-safe description of the target.
func (c *ConnectionConfig) String() string {
	return fmt.Sprintf("%s/%s", c.Server, c.Database)
}

// DeepCopy returns a copy of the config whose AdditionalParams map is not shared.
func (c ConnectionConfig) DeepCopy() ConnectionConfig {
	if c.AdditionalParams != nil {
		params := make(map[string]string, len(c.AdditionalParams))
		for k, v := range c.AdditionalParams {
			params[k] = v
		}
		c.AdditionalParams = params
	}
	return c
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodSQLPassword           AuthMethod = iota // SQL Server login
	AuthMethodAzurePassword                           // Active Directory Password
	AuthMethodAzureServicePrincipal                   // Active Directory Service Principal
	AuthMethodAzureDefault                            // Active Directory Default (credential chain)
	AuthMethodAzureManagedIdentity                    // Active Directory Managed Identity
	AuthMethodAzureInteractive                        // Active Directory Interactive
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodSQLPassword:
		return "SqlPassword"
	case AuthMethodAzurePassword:
		return "ActiveDirectoryPassword"
	case AuthMethodAzureServicePrincipal:
		return "ActiveDirectoryServicePrincipal"
	case AuthMethodAzureDefault:
		return "ActiveDirectoryDefault"
	case AuthMethodAzureManagedIdentity:
		return "ActiveDirectoryManagedIdentity"
	case AuthMethodAzureInteractive:
		return "ActiveDirectoryInteractive"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodSQLPassword && a <= AuthMethodAzureInteractive
}

// RequiresPassword reports whether the connection string must carry a password.
func (a AuthMethod) RequiresPassword() bool {
	return a == AuthMethodSQLPassword || a == AuthMethodAzurePassword || a == AuthMethodAzureServicePrincipal
}

// ParseAuthMethod maps the value of the Authentication connection string keyword.
// Spaces and case are ignored, so "Active Directory Default" and
// "ActiveDirectoryDefault" are equivalent. An empty value means SQL authentication.
func ParseAuthMethod(value string) (AuthMethod, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), " ", ""))
	switch normalized {
	case "", "sqlpassword", "sqlserver":
		return AuthMethodSQLPassword, nil
	case "activedirectorypassword":
		return AuthMethodAzurePassword, nil
	case "activedirectoryserviceprincipal":
		return AuthMethodAzureServicePrincipal, nil
	case "activedirectorydefault":
		return AuthMethodAzureDefault, nil
	case "activedirectorymanagedidentity", "activedirectorymsi":
		return AuthMethodAzureManagedIdentity, nil
	case "activedirectoryinteractive":
		return AuthMethodAzureInteractive, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedAuthMethod, value)
	}
}
