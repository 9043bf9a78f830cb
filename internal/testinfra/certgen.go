package testinfra

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

// SQL Server on Linux only loads RSA keys.
const rsaKeyBits = 2048

// CertBundle is a throwaway CA plus one server certificate, PEM encoded.
type CertBundle struct {
	CACert, CAKey         []byte
	ServerCert, ServerKey []byte
}

type CertPaths struct {
	CACert     string
	ServerCert string
	ServerKey  string
}

type issued struct {
	cert *x509.Certificate
	der  []byte
	key  *rsa.PrivateKey
}

// GenerateCertBundle creates a CA and a server certificate valid for hosts.
// DNS names and IP addresses are told apart automatically.
func GenerateCertBundle(hosts []string) (*CertBundle, error) {
	ca, err := issue(&x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "sqlaction-test-ca"},
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
		IsCA:                  true,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("CA: %w", err)
	}

	serverTemplate := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "sqlaction-test-server"},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			serverTemplate.IPAddresses = append(serverTemplate.IPAddresses, ip)
		} else {
			serverTemplate.DNSNames = append(serverTemplate.DNSNames, h)
		}
	}
	if len(serverTemplate.DNSNames) > 0 {
		serverTemplate.Subject.CommonName = serverTemplate.DNSNames[0]
	}

	server, err := issue(serverTemplate, ca)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}

	bundle := &CertBundle{
		CACert:     pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ca.der}),
		ServerCert: pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.der}),
	}
	if bundle.CAKey, err = encodeKeyPEM(ca.key); err != nil {
		return nil, fmt.Errorf("encode CA key: %w", err)
	}
	if bundle.ServerKey, err = encodeKeyPEM(server.key); err != nil {
		return nil, fmt.Errorf("encode server key: %w", err)
	}
	return bundle, nil
}

// issue signs template with parent, or self-signs when parent is nil.
// Certificates are valid from five minutes ago for one hour.
func issue(template *x509.Certificate, parent *issued) (*issued, error) {
	key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}

	now := time.Now()
	template.NotBefore = now.Add(-5 * time.Minute)
	template.NotAfter = now.Add(time.Hour)

	signer, signerKey := template, key
	if parent != nil {
		signer, signerKey = parent.cert, parent.key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, signer, &key.PublicKey, signerKey)
	if err != nil {
		return nil, fmt.Errorf("create certificate: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parse certificate: %w", err)
	}
	return &issued{cert: cert, der: der, key: key}, nil
}

// WriteToDir writes the CA certificate and the server pair into dir with
// owner-only permissions. The CA key is not written.
func (b *CertBundle) WriteToDir(dir string) (*CertPaths, error) {
	paths := &CertPaths{
		CACert:     filepath.Join(dir, "ca.pem"),
		ServerCert: filepath.Join(dir, "mssql.pem"),
		ServerKey:  filepath.Join(dir, "mssql.key"),
	}

	for path, data := range map[string][]byte{
		paths.CACert:     b.CACert,
		paths.ServerCert: b.ServerCert,
		paths.ServerKey:  b.ServerKey,
	} {
		if err := os.WriteFile(path, data, 0600); err != nil {
			return nil, fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
	}
	return paths, nil
}

// encodeKeyPEM emits PKCS#8, the format mssql-conf expects for tlskey.
func encodeKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}
