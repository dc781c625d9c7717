// Package authn performs the nonce-based signed-challenge login. One
// authentication runs per identity per run; tokens are never reused across
// identities or runs.
package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/mr-tron/base58"
	"github.com/rs/zerolog"

	"meridian-missions/claimd/internal/identity"
)

var ErrChallengeFailed = errors.New("challenge request failed")

// Challenge is the server-issued nonce pair. Never reused across attempts;
// every authentication requests a fresh one.
type Challenge struct {
	Nonce    string `json:"nonce"`
	IssuedAt string `json:"issuedAt"`
}

// Credential is the bearer artifact for one identity's session.
type Credential struct {
	Token    string
	WalletID string
}

// Apply attaches the credential to an outgoing request.
func (c Credential) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
}

// Client authenticates identities against the mission service.
type Client struct {
	http    *http.Client
	baseURL string
	service string
	log     zerolog.Logger

	// referral rides along on the run's first challenge request only,
	// then is cleared.
	referral string
}

func NewClient(httpClient *http.Client, baseURL, serviceName, referral string, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		http:     httpClient,
		baseURL:  baseURL,
		service:  serviceName,
		referral: referral,
		log:      log,
	}
}

// Message builds the canonical sign-in message. The exact line structure is
// part of the wire contract; the server reconstructs and verifies it.
func Message(serviceName, walletID string, ch Challenge) string {
	return fmt.Sprintf("Sign in to %s\n\nWallet: %s\nNonce: %s\nIssuedAt: %s",
		serviceName, walletID, ch.Nonce, ch.IssuedAt)
}

// Authenticate runs the challenge flow for one identity: request a nonce,
// sign the canonical message, assemble "<signature>.<walletId>". The server
// validates the signature lazily on first authenticated use, so no further
// round trip happens here.
func (c *Client) Authenticate(ctx context.Context, id identity.Identity) (Credential, error) {
	ch, err := c.requestChallenge(ctx)
	if err != nil {
		return Credential{}, err
	}
	c.log.Debug().Str("wallet", id.WalletID).Str("nonce", ch.Nonce).Msg("challenge issued")

	sig := id.Sign([]byte(Message(c.service, id.WalletID, ch)))
	return Credential{
		Token:    base58.Encode(sig) + "." + id.WalletID,
		WalletID: id.WalletID,
	}, nil
}

func (c *Client) requestChallenge(ctx context.Context) (Challenge, error) {
	payload := struct {
		ReferredBy string `json:"referredBy,omitempty"`
	}{ReferredBy: c.referral}
	c.referral = ""

	body, err := json.Marshal(payload)
	if err != nil {
		return Challenge{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/account", bytes.NewReader(body))
	if err != nil {
		return Challenge{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Challenge{}, fmt.Errorf("%w: %v", ErrChallengeFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Challenge{}, fmt.Errorf("%w: status %d", ErrChallengeFailed, resp.StatusCode)
	}

	var ch Challenge
	if err := json.NewDecoder(resp.Body).Decode(&ch); err != nil {
		return Challenge{}, fmt.Errorf("%w: decode: %v", ErrChallengeFailed, err)
	}
	return ch, nil
}
