// Package oidc implements sign-in against an OpenID Connect identity
// provider. It issues the authorization redirect with PKCE, verifies the
// callback, and extracts the identity claims a session is created from.
package oidc

import (
	"context"
	"net/http"
	"strings"

	"github.com/cccteam/httpio"
	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-playground/errors/v5"
	"github.com/gofrs/uuid"
	"github.com/gorilla/securecookie"
	"golang.org/x/oauth2"
)

var _ Authenticator = &OIDC{}

type OIDC struct {
	provider
	config
	s        *securecookie.SecureCookie
	loginURL string
	secure   bool
}

// New returns a new OIDC Authenticator. loginURL is where users are sent to
// restart sign-in when the flow fails.
func New(ctx context.Context, s *securecookie.SecureCookie, issuerURL, clientID, clientSecret, redirectURL, loginURL string, opts ...Option) (*OIDC, error) {
	provider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "oidc.NewProvider()")
	}

	o := &OIDC{
		provider: provider,
		config: &oAuth2{
			config: oauth2.Config{
				ClientID:     clientID,
				ClientSecret: clientSecret,
				RedirectURL:  redirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		},
		s:        s,
		loginURL: loginURL,
		secure:   true,
	}
	for _, opt := range opts {
		opt(o)
	}

	return o, nil
}

// Option configures an OIDC Authenticator.
type Option func(*OIDC)

// WithInsecureCookies drops the Secure attribute from the flow state cookie
// for plain-http local development.
func WithInsecureCookies() Option {
	return func(o *OIDC) {
		o.secure = false
	}
}

// AuthCodeURL returns the URL to redirect to in order to initiate the OIDC
// authentication process.
func (o *OIDC) AuthCodeURL(w http.ResponseWriter, returnURL string) (string, error) {
	// PKCE protects against authorization code interception.
	pkceVerifier := oauth2.GenerateVerifier()

	// A random state protects against CSRF on the callback.
	state, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "uuid.NewV4()")
	}

	cval := map[stKey]string{
		stState:        state.String(),
		stPkceVerifier: pkceVerifier,
		stReturnURL:    returnURL, // where to land after successful sign-in
	}

	if err := o.writeFlowCookie(w, cval); err != nil {
		return "", errors.Wrap(err, "writeFlowCookie()")
	}

	return o.config.AuthCodeURL(state.String(), oauth2.S256ChallengeOption(pkceVerifier)), nil
}

// Verify validates the OIDC callback request. It populates 'claims' with the
// ID Token's claims and returns the URL to redirect to following successful
// authentication.
func (o *OIDC) Verify(ctx context.Context, w http.ResponseWriter, r *http.Request, claims any) (returnURL string, err error) {
	cval, ok := o.readFlowCookie(r)
	if !ok {
		return "", httpio.NewForbiddenMessage("No sign-in flow cookie")
	}
	o.deleteFlowCookie(w)

	returnURL = cval[stReturnURL]
	if strings.TrimSpace(returnURL) == "" {
		returnURL = "/"
	}

	if r.URL.Query().Get("state") != cval[stState] {
		return "", httpio.NewForbiddenMessage("Invalid 'state' parameter value")
	}

	oauth2Token, err := o.config.Exchange(ctx, r.URL.Query().Get("code"), oauth2.VerifierOption(cval[stPkceVerifier]))
	if err != nil {
		return "", httpio.NewInternalServerErrorMessageWithError(err, "Failed to exchange token")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return "", httpio.NewInternalServerErrorMessage("No id_token in token response")
	}

	verifier := o.provider.Verifier(&oidc.Config{ClientID: o.config.ClientID()})

	idToken, err := verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return "", httpio.NewInternalServerErrorMessageWithError(err, "Failed to verify ID token")
	}

	if err := idToken.Claims(&claims); err != nil {
		return "", httpio.NewInternalServerErrorMessageWithError(err, "Failed to parse ID token claims")
	}

	return returnURL, nil
}

// LoginURL returns the URL to redirect to when sign-in must be restarted.
func (o *OIDC) LoginURL() string {
	return o.loginURL
}
