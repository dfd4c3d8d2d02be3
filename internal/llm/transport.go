package llm

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/rs/zerolog/log"
)

// TokenSource fornece a credencial colocada em cada requisição de saída.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken é um token fixo, por exemplo o token de um servidor MCP.
type StaticToken string

func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

// AuthenticatedTransport adiciona Header com Prefix+token em cada requisição.
// Um token vazio deixa a requisição intacta.
type AuthenticatedTransport struct {
	Base   http.RoundTripper
	Header string
	Prefix string
	Source TokenSource
}

func (t *AuthenticatedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clonar a requisição para não modificar a original
	reqCopy := req.Clone(req.Context())

	if t.Source != nil {
		token, err := t.Source.Token(req.Context())
		if err != nil {
			if req.Body != nil {
				req.Body.Close()
			}
			return nil, fmt.Errorf("failed to obtain token: %w", err)
		}
		if token != "" {
			reqCopy.Header.Set(t.Header, t.Prefix+token)
		}
	}

	log.Ctx(req.Context()).Debug().
		Str("method", reqCopy.Method).
		Stringer("url", reqCopy.URL).
		Str("auth_header", t.Header).
		Msg("outgoing request")

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(reqCopy)
}

// NewAuthenticatedClient envolve http.DefaultTransport com um
// AuthenticatedTransport.
func NewAuthenticatedClient(header, prefix string, source TokenSource, timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: &AuthenticatedTransport{
			Base:   http.DefaultTransport,
			Header: header,
			Prefix: prefix,
			Source: source,
		},
		Timeout: timeout,
	}
}

// tokenRefreshSkew é quanto tempo antes de expirar um token em cache é trocado.
const tokenRefreshSkew = 2 * time.Minute

// CredentialTokenSource obtém bearer tokens para um scope a partir de uma
// credencial do Azure e os mantém em cache até pouco antes de expirarem.
type CredentialTokenSource struct {
	cred  azcore.TokenCredential
	scope string

	mu    sync.Mutex
	token azcore.AccessToken
}

func NewCredentialTokenSource(cred azcore.TokenCredential, scope string) *CredentialTokenSource {
	return &CredentialTokenSource{cred: cred, scope: scope}
}

func (s *CredentialTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token.Token != "" && time.Until(s.token.ExpiresOn) > tokenRefreshSkew {
		return s.token.Token, nil
	}

	tok, err := s.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{s.scope}})
	if err != nil {
		return "", fmt.Errorf("failed to get token for scope %s: %w", s.scope, err)
	}
	s.token = tok
	return tok.Token, nil
}
