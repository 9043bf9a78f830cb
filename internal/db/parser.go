package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// maskedValue replaces secrets in MaskedConnectionString.
const maskedValue = "***"

// keyword aliases accepted by SqlClient, normalised to lower case without spaces.
var keywordAliases = map[string]string{
	"server":                 "server",
	"datasource":             "server",
	"address":                "server",
	"addr":                   "server",
	"networkaddress":         "server",
	"initialcatalog":         "database",
	"database":               "database",
	"userid":                 "user",
	"uid":                    "user",
	"user":                   "user",
	"password":               "password",
	"pwd":                    "password",
	"authentication":         "authentication",
	"encrypt":                "encrypt",
	"trustservercertificate": "trustservercertificate",
	"applicationname":        "appname",
	"app":                    "appname",
	"connecttimeout":         "timeout",
	"connectiontimeout":      "timeout",
	"timeout":                "timeout",
}

type keyValue struct {
	key   string
	value string
}

// ParseConnectionString parses an ADO.NET style SQL Server connection string
// (Server=...;Initial Catalog=...;User Id=...;Password=...).
//
// The original string is kept verbatim in RawConnectionString. Unknown
// keywords are preserved in AdditionalParams under their lower-case name.
func ParseConnectionString(connStr string) (*sqlaction.ConnectionConfig, error) {
	if strings.TrimSpace(connStr) == "" {
		return nil, fmt.Errorf("%w: connection string is empty", sqlaction.ErrInvalidConfig)
	}

	pairs, err := tokenize(connStr)
	if err != nil {
		return nil, err
	}

	config := &sqlaction.ConnectionConfig{
		RawConnectionString: connStr,
		Port:                sqlaction.DefaultSQLServerPort,
		AuthMethod:          sqlaction.AuthMethodSQLPassword,
		AdditionalParams:    make(map[string]string),
	}

	masked := make([]string, 0, len(pairs))
	var server string
	for _, kv := range pairs {
		name := normalizeKeyword(kv.key)
		canonical, known := keywordAliases[name]

		if canonical == "password" {
			masked = append(masked, kv.key+"="+maskedValue)
		} else {
			masked = append(masked, kv.key+"="+quoteValue(kv.value))
		}

		if !known {
			config.AdditionalParams[strings.ToLower(strings.TrimSpace(kv.key))] = kv.value
			continue
		}

		switch canonical {
		case "server":
			server = kv.value
		case "database":
			config.Database = kv.value
		case "user":
			config.UserID = kv.value
		case "password":
			config.Password = kv.value
		case "authentication":
			method, err := sqlaction.ParseAuthMethod(kv.value)
			if err != nil {
				return nil, err
			}
			config.AuthMethod = method
		case "encrypt":
			config.Encrypt = strings.ToLower(kv.value)
		case "trustservercertificate":
			trust, err := parseBool(kv.value)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid TrustServerCertificate %q", sqlaction.ErrInvalidConfig, kv.value)
			}
			config.TrustServerCertificate = trust
		case "appname":
			config.AppName = kv.value
		case "timeout":
			seconds, err := strconv.Atoi(kv.value)
			if err != nil || seconds < 0 {
				return nil, fmt.Errorf("%w: invalid Connect Timeout %q", sqlaction.ErrInvalidConfig, kv.value)
			}
			config.ConnectTimeout = time.Duration(seconds) * time.Second
		}
	}
	config.MaskedConnectionString = strings.Join(masked, ";")

	if err := applyServer(config, server); err != nil {
		return nil, err
	}
	if config.Database == "" {
		return nil, fmt.Errorf("%w: connection string has no Initial Catalog or Database", sqlaction.ErrInvalidConfig)
	}
	if config.AuthMethod == sqlaction.AuthMethodAzureServicePrincipal {
		if client, tenant, ok := strings.Cut(config.UserID, "@"); ok {
			config.UserID = client
			config.AzureTenantID = tenant
		}
	}
	if config.AuthMethod.RequiresPassword() && config.Password == "" && !usesIntegratedSecurity(config) {
		return nil, fmt.Errorf("%w: %s authentication requires a Password", sqlaction.ErrInvalidConfig, config.AuthMethod)
	}

	return config, nil
}

// applyServer splits "tcp:host\instance,port" into its parts.
func applyServer(config *sqlaction.ConnectionConfig, server string) error {
	server = strings.TrimSpace(server)
	if lower := strings.ToLower(server); strings.HasPrefix(lower, "tcp:") {
		server = server[len("tcp:"):]
	}
	if server == "" {
		return fmt.Errorf("%w: connection string has no Server or Data Source", sqlaction.ErrInvalidConfig)
	}

	host, portText, hasPort := strings.Cut(server, ",")
	host = strings.TrimSpace(host)
	if hasPort {
		port, err := strconv.Atoi(strings.TrimSpace(portText))
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%w: invalid port %q", sqlaction.ErrInvalidConfig, portText)
		}
		config.Port = port
	} else if strings.Contains(host, `\`) {
		// Named instances resolve their port through SQL Browser.
		config.Port = 0
	}

	name, instance, named := strings.Cut(host, `\`)
	if name == "." || strings.EqualFold(name, "(local)") {
		name = "localhost"
	}
	if named {
		config.Server = name + `\` + instance
	} else {
		config.Server = name
	}
	return nil
}

// tokenize splits a connection string into ordered key/value pairs.
// Values may be wrapped in single or double quotes; a doubled quote inside
// a quoted value stands for one literal quote.
func tokenize(connStr string) ([]keyValue, error) {
	var pairs []keyValue
	s := connStr
	for {
		s = strings.TrimLeft(s, " \t\r\n;")
		if s == "" {
			return pairs, nil
		}

		eq := strings.IndexByte(s, '=')
		if eq < 0 {
			return nil, fmt.Errorf("%w: connection string segment %q has no '='", sqlaction.ErrInvalidConfig, s)
		}
		key := strings.TrimSpace(s[:eq])
		if key == "" || strings.ContainsRune(key, ';') {
			return nil, fmt.Errorf("%w: malformed connection string near %q", sqlaction.ErrInvalidConfig, s[:eq])
		}
		s = strings.TrimLeft(s[eq+1:], " \t")

		var value string
		if s != "" && (s[0] == '\'' || s[0] == '"') {
			quote := s[0]
			var b strings.Builder
			i := 1
			closed := false
			for i < len(s) {
				if s[i] == quote {
					if i+1 < len(s) && s[i+1] == quote {
						b.WriteByte(quote)
						i += 2
						continue
					}
					closed = true
					i++
					break
				}
				b.WriteByte(s[i])
				i++
			}
			if !closed {
				return nil, fmt.Errorf("%w: unterminated quoted value for %q", sqlaction.ErrInvalidConfig, key)
			}
			rest := strings.TrimLeft(s[i:], " \t")
			if rest != "" && rest[0] != ';' {
				return nil, fmt.Errorf("%w: unexpected text after quoted value for %q", sqlaction.ErrInvalidConfig, key)
			}
			value = b.String()
			s = rest
		} else {
			end := strings.IndexByte(s, ';')
			if end < 0 {
				end = len(s)
			}
			value = strings.TrimSpace(s[:end])
			s = s[end:]
		}

		pairs = append(pairs, keyValue{key: key, value: value})
	}
}

// usesIntegratedSecurity reports whether Windows authentication replaces
// the SQL login.
func usesIntegratedSecurity(config *sqlaction.ConnectionConfig) bool {
	if config.AuthMethod != sqlaction.AuthMethodSQLPassword {
		return false
	}
	for _, key := range []string{"integrated security", "trusted_connection"} {
		if v, ok := config.AdditionalParams[key]; ok {
			if strings.EqualFold(v, "sspi") {
				return true
			}
			if on, err := parseBool(v); err == nil && on {
				return true
			}
		}
	}
	return false
}

func normalizeKeyword(key string) string {
	return strings.ToLower(strings.Join(strings.Fields(key), ""))
}

// quoteValue re-quotes values that would not survive tokenize unquoted.
func quoteValue(v string) string {
	if !strings.ContainsAny(v, ";'\"") && strings.TrimSpace(v) == v {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func parseBool(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", v)
}

// BuildDriverConnectionString converts a ConnectionConfig into the
// sqlserver:// URL understood by go-mssqldb.
//
// Credentials are included only for SQL and Active Directory Password
// authentication; token-based methods authenticate through the connector.
func BuildDriverConnectionString(config *sqlaction.ConnectionConfig) string {
	host, instance, _ := strings.Cut(config.Server, `\`)
	if config.Port > 0 {
		host = fmt.Sprintf("%s:%d", host, config.Port)
	}

	u := &url.URL{Scheme: "sqlserver", Host: host}
	if instance != "" {
		u.Path = "/" + instance
	}

	switch config.AuthMethod {
	case sqlaction.AuthMethodSQLPassword, sqlaction.AuthMethodAzurePassword:
		if config.UserID != "" {
			u.User = url.UserPassword(config.UserID, config.Password)
		}
	}

	query := url.Values{}
	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}
	query.Set("database", config.Database)
	if config.Encrypt != "" {
		query.Set("encrypt", config.Encrypt)
	}
	if config.TrustServerCertificate {
		query.Set("TrustServerCertificate", "true")
	}
	appName := config.AppName
	if appName == "" {
		appName = sqlaction.DefaultAppName
	}
	query.Set("app name", appName)
	if config.ConnectTimeout > 0 {
		query.Set("connection timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}
	if config.AuthMethod == sqlaction.AuthMethodAzurePassword {
		query.Set("fedauth", "ActiveDirectoryPassword")
	}

	u.RawQuery = query.Encode()
	return u.String()
}
