package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sqlaction/internal/logging"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func parseTestConfig(t *testing.T, connStr string) *sqlaction.ConnectionConfig {
	t.Helper()
	c, err := ParseConnectionString(connStr)
	require.NoError(t, err)
	return c
}

func TestConnector_DriverConnector_SQLPassword(t *testing.T) {
	c := NewConnector(parseTestConfig(t, "Server=h;Database=d;User Id=u;Password=p"), logging.NewNullLogger())

	connector, err := c.driverConnector(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &mssql.Connector{}, connector)
}

func TestConnector_DriverConnector_AzurePassword(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=ActiveDirectoryPassword;User Id=me@contoso.com;Password=p;applicationclientid=00000000-0000-0000-0000-000000000001")
	c := NewConnector(cfg, logging.NewNullLogger())

	_, err := c.driverConnector(context.Background())
	require.NoError(t, err)
}

func TestConnector_DriverConnector_Interactive(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=Active Directory Interactive")
	c := NewConnector(cfg, logging.NewNullLogger())

	_, err := c.driverConnector(context.Background())
	assert.ErrorIs(t, err, sqlaction.ErrUnsupportedAuthMethod)
}

func TestConnector_TokenProvider_ServicePrincipal(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=ActiveDirectoryServicePrincipal;User Id=00000000-0000-0000-0000-000000000001@00000000-0000-0000-0000-000000000002;Password=s")
	c := NewConnector(cfg, logging.NewNullLogger())

	provider, err := c.tokenProvider()
	require.NoError(t, err)
	assert.Equal(t, "AzureServicePrincipal(tenant=00000000-0000-0000-0000-000000000002, client=00000000-0000-0000-0000-000000000001)", provider.String())
	assert.NotContains(t, provider.String(), "=s)")
}

func TestConnector_TokenProvider_ServicePrincipalTenantFromEnv(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=ActiveDirectoryServicePrincipal;User Id=client;Password=s")
	c := NewConnector(cfg, logging.NewNullLogger())
	c.getenv = func(key string) string {
		if key == "AZURE_TENANT_ID" {
			return "tenant-from-env"
		}
		return ""
	}

	provider, err := c.tokenProvider()
	require.NoError(t, err)
	assert.Contains(t, provider.String(), "tenant=tenant-from-env")
}

func TestConnector_TokenProvider_ServicePrincipalWithoutTenant(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=ActiveDirectoryServicePrincipal;User Id=client;Password=s")
	c := NewConnector(cfg, logging.NewNullLogger())
	c.getenv = func(string) string { return "" }

	_, err := c.tokenProvider()
	assert.ErrorIs(t, err, sqlaction.ErrInvalidConfig)
}

func TestConnector_TokenProvider_ManagedIdentity(t *testing.T) {
	cfg := parseTestConfig(t, "Server=h;Database=d;Authentication=ActiveDirectoryManagedIdentity;User Id=11111111-1111-1111-1111-111111111111")
	c := NewConnector(cfg, logging.NewNullLogger())

	provider, err := c.tokenProvider()
	require.NoError(t, err)
	assert.Equal(t, "AzureManagedIdentity(client=11111111-1111-1111-1111-111111111111)", provider.String())
}

func TestNewAzureServicePrincipalProvider_RequiresAllFields(t *testing.T) {
	_, err := NewAzureServicePrincipalProvider("", "client", "secret")
	assert.Error(t, err)
	_, err = NewAzureServicePrincipalProvider("tenant", "", "secret")
	assert.Error(t, err)
	_, err = NewAzureServicePrincipalProvider("tenant", "client", "")
	assert.Error(t, err)
}

func TestWrapConnectionError(t *testing.T) {
	cfg := &sqlaction.ConnectionConfig{Server: "db.example.com", Port: 1433, Database: "app", UserID: "deployer"}

	tests := []struct {
		name    string
		err     error
		message string
	}{
		{"login failed", mssql.Error{Number: 18456, Message: "Login failed for user 'deployer'."}, `login failed for user "deployer"`},
		{"cannot open database", mssql.Error{Number: 4060, Message: "Cannot open database"}, `cannot open database "app"`},
		{"dns", errors.New("lookup db.example.com: no such host"), `cannot resolve host "db.example.com"`},
		{"refused", errors.New("dial tcp 10.0.0.1:1433: connect: connection refused"), "connection refused to db.example.com"},
		{"tls", errors.New("TLS Handshake failed: x509: certificate signed by unknown authority"), "TLS handshake with db.example.com failed"},
		{"other", errors.New("something odd"), "connecting to db.example.com/app"},
		{"deadline", fmt.Errorf("ping: %w", context.DeadlineExceeded), "connecting to db.example.com/app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapConnectionError(tt.err, cfg)
			assert.ErrorIs(t, err, sqlaction.ErrConnectionFailed)
			assert.Contains(t, err.Error(), tt.err.Error())
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, sqlaction.ExitConnectionError, sqlaction.ExitCodeForError(err))
		})
	}
}

func TestConnector_CloseWithoutOpen(t *testing.T) {
	c := NewConnector(&sqlaction.ConnectionConfig{}, logging.NewNullLogger())
	assert.NoError(t, c.Close())
}
