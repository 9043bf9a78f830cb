package db

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"github.com/vvka-141/sqlaction/internal/retry"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

// Connector opens *sql.DB handles for a parsed connection string, choosing
// the go-mssqldb connector that matches its authentication method.
type Connector struct {
	config        *sqlaction.ConnectionConfig
	logger        sqlaction.Logger
	retryExecutor *retry.Executor
	getenv        func(string) string

	closers []io.Closer
}

// NewConnector creates a Connector. Opening is retried on transient
// failures using the sqlaction retry defaults.
func NewConnector(config *sqlaction.ConnectionConfig, logger sqlaction.Logger) *Connector {
	strategy := retry.NewBackoff(sqlaction.DefaultRetryMaxAttempts,
		retry.WithInitialDelay(sqlaction.DefaultRetryInitialDelay),
		retry.WithMaxDelay(sqlaction.DefaultRetryMaxDelay),
	)
	executor := retry.NewExecutor(retry.NewSQLServerClassifier(), strategy).
		WithOnRetry(func(attempt int, err error, delay time.Duration) {
			logger.Warn("Connection to %s failed, retrying in %s (attempt %d/%d)",
				config, delay.Round(time.Millisecond), attempt+1, sqlaction.DefaultRetryMaxAttempts)
		})

	return &Connector{
		config:        config,
		logger:        logger,
		retryExecutor: executor,
		getenv:        os.Getenv,
	}
}

// Open returns a verified database handle. The caller must close the
// handle and then call Close on the Connector.
func (c *Connector) Open(ctx context.Context) (*sql.DB, error) {
	connector, err := c.driverConnector(ctx)
	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(connector)
	err = c.retryExecutor.Execute(ctx, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if err != nil {
		db.Close()
		c.Close()
		return nil, wrapConnectionError(err, c.config)
	}
	return db, nil
}

// Close releases dialers created by Open.
func (c *Connector) Close() error {
	var errs []error
	for _, closer := range c.closers {
		errs = append(errs, closer.Close())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Connector) driverConnector(ctx context.Context) (driver.Connector, error) {
	dsn := BuildDriverConnectionString(c.config)

	var (
		connector *mssql.Connector
		err       error
	)
	switch c.config.AuthMethod {
	case sqlaction.AuthMethodSQLPassword:
		connector, err = mssql.NewConnector(dsn)
	case sqlaction.AuthMethodAzurePassword:
		connector, err = azuread.NewConnector(dsn)
	case sqlaction.AuthMethodAzureServicePrincipal,
		sqlaction.AuthMethodAzureDefault,
		sqlaction.AuthMethodAzureManagedIdentity:
		var provider TokenProvider
		provider, err = c.tokenProvider()
		if err != nil {
			return nil, err
		}
		c.logger.Verbose("Authenticating with %s", provider)
		connector, err = mssql.NewConnectorWithAccessTokenProvider(dsn, func(ctx context.Context) (string, error) {
			token, _, err := provider.GetToken(ctx)
			return token, err
		})
	default:
		return nil, fmt.Errorf("%w: %s is not supported for script execution", sqlaction.ErrUnsupportedAuthMethod, c.config.AuthMethod)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", sqlaction.ErrInvalidConfig, err)
	}

	if c.config.CloudSQLInstance != "" {
		dialer, err := newCloudSQLDialer(ctx, c.config.CloudSQLInstance)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", sqlaction.ErrConnectionFailed, err)
		}
		c.closers = append(c.closers, dialer)
		connector.Dialer = dialer
		c.logger.Verbose("Dialing through Cloud SQL instance %s", c.config.CloudSQLInstance)
	}

	return connector, nil
}

// tokenProvider picks the Entra ID credential for the configured method.
// For service principals the tenant comes from "client@tenant" in User Id,
// falling back to AZURE_TENANT_ID.
func (c *Connector) tokenProvider() (TokenProvider, error) {
	switch c.config.AuthMethod {
	case sqlaction.AuthMethodAzureServicePrincipal:
		tenant := c.config.AzureTenantID
		if tenant == "" {
			tenant = c.getenv("AZURE_TENANT_ID")
		}
		if tenant == "" {
			return nil, fmt.Errorf("%w: service principal authentication needs a tenant (User Id=client@tenant or AZURE_TENANT_ID)", sqlaction.ErrInvalidConfig)
		}
		return NewAzureServicePrincipalProvider(tenant, c.config.UserID, c.config.Password)
	case sqlaction.AuthMethodAzureManagedIdentity:
		return NewAzureManagedIdentityProvider(c.config.UserID)
	default:
		return NewAzureDefaultCredentialProvider()
	}
}

// wrapConnectionError adds actionable guidance to common SQL Server
// connection failures.
func wrapConnectionError(err error, config *sqlaction.ConnectionConfig) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: connecting to %s: %w", sqlaction.ErrConnectionFailed, config, err)
	}

	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Number {
		case 18456:
			return fmt.Errorf(`%w: login failed for user "%s"

Possible causes:
  - Wrong password or User Id
  - The login has no access to database "%s"
  - Azure SQL firewall rules do not allow this runner's IP

Original error: %w`, sqlaction.ErrConnectionFailed, config.UserID, config.Database, err)
		case 4060:
			return fmt.Errorf(`%w: cannot open database "%s"

Possible causes:
  - The database does not exist
  - The login is not mapped to a user in the database

Original error: %w`, sqlaction.ErrConnectionFailed, config.Database, err)
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "no such host"):
		return fmt.Errorf(`%w: cannot resolve host "%s"

Possible causes:
  - Server name is misspelled
  - DNS is not reachable from the runner

Original error: %w`, sqlaction.ErrConnectionFailed, config.Server, err)

	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`%w: connection refused to %s

Possible causes:
  - SQL Server is not running or not listening on TCP port %d
  - Firewall blocking the connection

Original error: %w`, sqlaction.ErrConnectionFailed, config.Server, config.Port, err)

	case strings.Contains(errStr, "certificate") || strings.Contains(errStr, "tls"):
		return fmt.Errorf(`%w: TLS handshake with %s failed

Possible causes:
  - Server uses a self-signed certificate (set TrustServerCertificate=True)
  - Encrypt setting does not match the server

Original error: %w`, sqlaction.ErrConnectionFailed, config.Server, err)

	default:
		return fmt.Errorf("%w: connecting to %s: %w", sqlaction.ErrConnectionFailed, config, err)
	}
}
