package auth

import (
	"fmt"

	"golang.org/x/oauth2"
)

const (
	// Strava OAuth endpoints
	AuthURL  = "https://www.strava.com/oauth/authorize"
	TokenURL = "https://www.strava.com/oauth/token"
)

// Scopes needed to read activity summaries (Strava uses comma-separated scopes)
var Scopes = []string{
	"read,activity:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // defaults to http://localhost:8089/callback

	// Endpoint overrides the Strava endpoints when set
	Endpoint oauth2.Endpoint
}

// NewOAuthConfig creates an oauth2.Config from our Config
func NewOAuthConfig(cfg Config) *oauth2.Config {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint.AuthURL = AuthURL
	}
	if endpoint.TokenURL == "" {
		endpoint.TokenURL = TokenURL
	}
	// Strava expects client_id/client_secret in the form body
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = fmt.Sprintf("http://localhost:%d/callback", CallbackPort)
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  redirect,
		Scopes:       Scopes,
	}
}

// AuthResult contains the token and athlete info from successful auth
type AuthResult struct {
	Token     *oauth2.Token
	AthleteID int64
	Firstname string
}

// ExtractAthlete reads the athlete ID and first name that Strava includes
// in the token response
func ExtractAthlete(token *oauth2.Token) (id int64, firstname string) {
	athlete, ok := token.Extra("athlete").(map[string]interface{})
	if !ok {
		return 0, ""
	}
	if v, ok := athlete["id"].(float64); ok {
		id = int64(v)
	}
	if v, ok := athlete["firstname"].(string); ok {
		firstname = v
	}
	return id, firstname
}
