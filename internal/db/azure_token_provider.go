package db

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// credentialProvider adapts any azcore.TokenCredential to TokenProvider.
type credentialProvider struct {
	credential  azcore.TokenCredential
	description string
}

func (p *credentialProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	token, err := p.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{AzureSQLScope},
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("azure token acquisition failed: %w", err)
	}
	return token.Token, token.ExpiresOn, nil
}

func (p *credentialProvider) String() string {
	return p.description
}

// NewAzureServicePrincipalProvider creates a token provider for Service Principal auth.
// All three parameters (tenantID, clientID, clientSecret) are required.
func NewAzureServicePrincipalProvider(tenantID, clientID, clientSecret string) (TokenProvider, error) {
	if tenantID == "" || clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("azure service principal requires tenantID, clientID, and clientSecret")
	}

	cred, err := azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	return &credentialProvider{
		credential:  cred,
		description: fmt.Sprintf("AzureServicePrincipal(tenant=%s, client=%s)", tenantID, clientID),
	}, nil
}

// NewAzureDefaultCredentialProvider uses Azure's DefaultAzureCredential chain:
// environment variables, workload identity, managed identity, then developer
// tools such as the Azure CLI.
func NewAzureDefaultCredentialProvider() (TokenProvider, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure default credential: %w", err)
	}
	return &credentialProvider{credential: cred, description: "AzureDefaultCredential"}, nil
}

// NewAzureManagedIdentityProvider uses the host's managed identity.
// clientID selects a user-assigned identity; empty means system-assigned.
func NewAzureManagedIdentityProvider(clientID string) (TokenProvider, error) {
	opts := &azidentity.ManagedIdentityCredentialOptions{}
	description := "AzureManagedIdentity(system)"
	if clientID != "" {
		opts.ID = azidentity.ClientID(clientID)
		description = fmt.Sprintf("AzureManagedIdentity(client=%s)", clientID)
	}

	cred, err := azidentity.NewManagedIdentityCredential(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure managed identity credential: %w", err)
	}
	return &credentialProvider{credential: cred, description: description}, nil
}
