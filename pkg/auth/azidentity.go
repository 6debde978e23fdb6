package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// AzureDevopsScope requests a token for the Azure Devops resource with default permissions
const AzureDevopsScope = "499b84ac-1321-427f-aa17-267ca6975798/.default"

const tokenRefreshMargin = 5 * time.Minute

// AzureIdentityAuth authenticates with an Azure AD token
type AzureIdentityAuth struct {
	credential azcore.TokenCredential

	mutex sync.Mutex
	token azcore.AccessToken
	now   func() time.Time
}

// NewAzureIdentityAuth wraps any azcore credential
func NewAzureIdentityAuth(credential azcore.TokenCredential) *AzureIdentityAuth {
	return &AzureIdentityAuth{credential: credential, now: time.Now}
}

// NewDefaultAzureIdentityAuth uses the default Azure credential chain (environment, managed identity, Azure CLI, ...)
func NewDefaultAzureIdentityAuth() (*AzureIdentityAuth, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating default Azure credential: %w", err)
	}
	return NewAzureIdentityAuth(credential), nil
}

// NewDeviceCodeAuth authenticates interactively with the device code flow. prompt receives the message to show the user.
func NewDeviceCodeAuth(tenantID string, clientID string, prompt func(message string)) (*AzureIdentityAuth, error) {
	credential, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
		TenantID: tenantID,
		ClientID: clientID,
		UserPrompt: func(ctx context.Context, message azidentity.DeviceCodeMessage) error {
			prompt(message.Message)
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating device code credential: %w", err)
	}
	return NewAzureIdentityAuth(credential), nil
}

// AuthorizationHeader returns "Bearer <token>", requesting a new token when the cached one is about to expire
func (a *AzureIdentityAuth) AuthorizationHeader(ctx context.Context) (string, error) {
	a.mutex.Lock()
	defer a.mutex.Unlock()

	if a.token.Token == "" || a.now().Add(tokenRefreshMargin).After(a.token.ExpiresOn) {
		token, err := a.credential.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{AzureDevopsScope}})
		if err != nil {
			return "", fmt.Errorf("getting Azure Devops token: %w", err)
		}
		a.token = token
	}

	return "Bearer " + a.token.Token, nil
}
