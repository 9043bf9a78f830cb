package db

import (
	"context"
	"time"
)

// TokenProvider acquires Microsoft Entra ID access tokens for SQL connections.
type TokenProvider interface {
	// GetToken returns an access token and its expiry.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. Must not include secrets.
	String() string
}

// AzureSQLScope is the OAuth scope for Azure SQL Database and Managed Instance.
const AzureSQLScope = "https://database.windows.net/.default"
