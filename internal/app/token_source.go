package app

import (
	"context"
	"net/http"
	"sync"

	"github.com/tonimelisma/sheets-client/internal/logger"
	"github.com/tonimelisma/sheets-client/pkg/sheets"
)

// credentialSource is the part of *sheets.TokenManager the persisting
// wrapper needs.
type credentialSource interface {
	sheets.AuthorizationSource
	Credential() *sheets.AccessCredential
}

// persistingAuthSource wraps a credential source and calls onNewCredential
// whenever the access token it hands out changes, so a refreshed token can
// be cached for the next invocation.
type persistingAuthSource struct {
	base            credentialSource
	mu              sync.Mutex
	lastToken       string
	onNewCredential func(c sheets.AccessCredential) error
	log             logger.Logger
}

func newPersistingAuthSource(base credentialSource, initial string, onNew func(c sheets.AccessCredential) error, log logger.Logger) *persistingAuthSource {
	if log == nil {
		log = logger.NoopLogger{}
	}
	return &persistingAuthSource{
		base:            base,
		lastToken:       initial,
		onNewCredential: onNew,
		log:             log,
	}
}

// AuthorizationHeader implements sheets.AuthorizationSource. A failure to
// persist is logged and otherwise ignored; the credential is still valid
// in memory.
func (s *persistingAuthSource) AuthorizationHeader(ctx context.Context, extra http.Header) (http.Header, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.base.AuthorizationHeader(ctx, extra)
	if err != nil {
		return nil, err
	}

	cred := s.base.Credential()
	if cred == nil || cred.Token == s.lastToken {
		return h, nil
	}
	s.lastToken = cred.Token
	if s.onNewCredential != nil {
		if err := s.onNewCredential(*cred); err != nil {
			s.log.Warn("could not cache access token", "error", err)
		}
	}
	return h, nil
}
