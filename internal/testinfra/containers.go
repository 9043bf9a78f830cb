package testinfra

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mssql"
)

const (
	SQLServerImage    = "mcr.microsoft.com/mssql/server:2022-latest"
	SQLServerUser     = "sa"
	SQLServerPassword = "Sqlaction!Passw0rd"
	SQLServerDatabase = "master"

	containerCertDir  = "/var/opt/mssql/certs"
	containerConfPath = "/var/opt/mssql/mssql.conf"
)

// SQLServerContainer is a running SQL Server with an ADO.NET connection
// string that the sqlaction parser accepts.
type SQLServerContainer struct {
	*mssql.MSSQLServerContainer
	ConnString string
}

// StartSQLServer starts SQL Server with its self-signed certificate.
func StartSQLServer(ctx context.Context) (*SQLServerContainer, error) {
	ctr, err := mssql.Run(ctx,
		SQLServerImage,
		mssql.WithAcceptEULA(),
		mssql.WithPassword(SQLServerPassword),
	)
	if err != nil {
		return nil, fmt.Errorf("start sql server: %w", err)
	}

	connStr, err := adoConnectionString(ctx, ctr, "TrustServerCertificate=true")
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &SQLServerContainer{MSSQLServerContainer: ctr, ConnString: connStr}, nil
}

// StartTLSSQLServer starts SQL Server with forced encryption using the
// server certificate in certPaths. The returned connection string verifies
// the server against the bundle's CA.
func StartTLSSQLServer(ctx context.Context, certPaths *CertPaths) (*SQLServerContainer, error) {
	confPath, err := writeTLSConfig(filepath.Dir(certPaths.CACert))
	if err != nil {
		return nil, err
	}

	ctr, err := mssql.Run(ctx,
		SQLServerImage,
		mssql.WithAcceptEULA(),
		mssql.WithPassword(SQLServerPassword),
		testcontainers.WithFiles(
			testcontainers.ContainerFile{HostFilePath: certPaths.ServerCert, ContainerFilePath: containerCertDir + "/mssql.pem", FileMode: 0o644},
			testcontainers.ContainerFile{HostFilePath: certPaths.ServerKey, ContainerFilePath: containerCertDir + "/mssql.key", FileMode: 0o644},
			testcontainers.ContainerFile{HostFilePath: confPath, ContainerFilePath: containerConfPath, FileMode: 0o644},
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start TLS sql server: %w", err)
	}

	connStr, err := adoConnectionString(ctx, ctr,
		"Encrypt=true",
		"TrustServerCertificate=false",
		"HostNameInCertificate=localhost",
		"Certificate="+certPaths.CACert,
	)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, err
	}
	return &SQLServerContainer{MSSQLServerContainer: ctr, ConnString: connStr}, nil
}

func adoConnectionString(ctx context.Context, ctr *mssql.MSSQLServerContainer, extra ...string) (string, error) {
	host, err := ctr.Host(ctx)
	if err != nil {
		return "", fmt.Errorf("get container host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, "1433/tcp")
	if err != nil {
		return "", fmt.Errorf("get mapped port: %w", err)
	}

	connStr := fmt.Sprintf("Server=tcp:%s,%s;Initial Catalog=%s;User Id=%s;Password=%s",
		host, port.Port(), SQLServerDatabase, SQLServerUser, SQLServerPassword)
	for _, kv := range extra {
		connStr += ";" + kv
	}
	return connStr, nil
}

func writeTLSConfig(dir string) (string, error) {
	conf := fmt.Sprintf(`[network]
tlscert = %s/mssql.pem
tlskey = %s/mssql.key
tlsprotocols = 1.2
forceencryption = 1
`, containerCertDir, containerCertDir)

	path := filepath.Join(dir, "mssql.conf")
	if err := os.WriteFile(path, []byte(conf), 0644); err != nil {
		return "", fmt.Errorf("write mssql.conf: %w", err)
	}
	return path, nil
}
