//go:build conntest

package conntest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/sqlaction/internal/db"
	"github.com/vvka-141/sqlaction/internal/logging"
	"github.com/vvka-141/sqlaction/internal/testinfra"
	"github.com/vvka-141/sqlaction/pkg/sqlaction"
)

func TestTLSConnection_VerifiesAgainstCA(t *testing.T) {
	config := parseConnString(t, tlsContainer.ConnString)
	conn := openWithConfig(t, config)

	encrypted := queryString(t, conn,
		"SELECT CAST(encrypt_option AS NVARCHAR(10)) FROM sys.dm_exec_connections WHERE session_id = @@SPID")
	assert.Equal(t, "TRUE", encrypted)
}

func TestTLSConnection_RejectsForeignCA(t *testing.T) {
	foreign, err := testinfra.GenerateCertBundle([]string{"localhost"})
	require.NoError(t, err)
	caPath := filepath.Join(t.TempDir(), "foreign-ca.pem")
	require.NoError(t, os.WriteFile(caPath, foreign.CACert, 0600))

	config := parseConnString(t, tlsContainer.ConnString)
	config.AdditionalParams["certificate"] = caPath

	connector := db.NewConnector(config, logging.NewNullLogger())
	defer connector.Close()

	_, err = connector.Open(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, sqlaction.ErrConnectionFailed)
}
