package testinfra

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCertBundle_ServerCertificate(t *testing.T) {
	bundle, err := GenerateCertBundle([]string{"localhost", "127.0.0.1", "mssql.internal"})
	require.NoError(t, err)

	ca := decodeCert(t, bundle.CACert)
	server := decodeCert(t, bundle.ServerCert)

	assert.True(t, ca.IsCA)
	assert.Equal(t, "sqlaction-test-ca", ca.Subject.CommonName)

	assert.False(t, server.IsCA)
	assert.Equal(t, "localhost", server.Subject.CommonName, "first DNS name becomes the CN")
	assert.Equal(t, []string{"localhost", "mssql.internal"}, server.DNSNames)
	require.Len(t, server.IPAddresses, 1)
	assert.Equal(t, "127.0.0.1", server.IPAddresses[0].String())
	assert.Equal(t, []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}, server.ExtKeyUsage)
	assert.True(t, server.NotAfter.After(server.NotBefore))

	roots := x509.NewCertPool()
	roots.AddCert(ca)
	_, err = server.Verify(x509.VerifyOptions{DNSName: "mssql.internal", Roots: roots})
	assert.NoError(t, err)
}

func TestGenerateCertBundle_PKCS8RSAKeys(t *testing.T) {
	bundle, err := GenerateCertBundle([]string{"localhost"})
	require.NoError(t, err)

	for name, pair := range map[string][2][]byte{
		"ca":     {bundle.CAKey, bundle.CACert},
		"server": {bundle.ServerKey, bundle.ServerCert},
	} {
		t.Run(name, func(t *testing.T) {
			block, _ := pem.Decode(pair[0])
			require.NotNil(t, block)
			assert.Equal(t, "PRIVATE KEY", block.Type)

			parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
			require.NoError(t, err)
			key, ok := parsed.(*rsa.PrivateKey)
			require.True(t, ok, "key must be RSA, got %T", parsed)
			assert.True(t, key.PublicKey.Equal(decodeCert(t, pair[1]).PublicKey))
		})
	}
}

func TestGenerateCertBundle_ForeignCANotTrusted(t *testing.T) {
	first, err := GenerateCertBundle([]string{"localhost"})
	require.NoError(t, err)
	second, err := GenerateCertBundle([]string{"localhost"})
	require.NoError(t, err)

	roots := x509.NewCertPool()
	roots.AddCert(decodeCert(t, first.CACert))

	_, err = decodeCert(t, second.ServerCert).Verify(x509.VerifyOptions{DNSName: "localhost", Roots: roots})
	assert.Error(t, err)
}

func TestCertBundle_WriteToDir(t *testing.T) {
	bundle, err := GenerateCertBundle([]string{"localhost"})
	require.NoError(t, err)

	paths, err := bundle.WriteToDir(t.TempDir())
	require.NoError(t, err)

	written := map[string][]byte{
		paths.CACert:     bundle.CACert,
		paths.ServerCert: bundle.ServerCert,
		paths.ServerKey:  bundle.ServerKey,
	}
	for path, want := range written {
		got, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)

		if runtime.GOOS != "windows" {
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), path)
		}
	}
}

func decodeCert(t *testing.T, data []byte) *x509.Certificate {
	t.Helper()
	block, _ := pem.Decode(data)
	require.NotNil(t, block)
	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err)
	return cert
}
