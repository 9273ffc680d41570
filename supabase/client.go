package supabase

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt"
	"github.com/supabase-community/supabase-go"
)

// Store adapts the Supabase row store to the chat core's Persistence
// interface. One Store per signed-in user when row-level security is in
// play (see NewForUser); the service-role variant is New.
type Store struct {
	client *supabase.Client
}

func New(apiURL, apiKey string) (*Store, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("supabase URL or key is missing")
	}
	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client}, nil
}

// NewForUser builds a client that acts as the token's user and returns
// the user id taken from the token's sub claim.
func NewForUser(apiURL, apiKey, accessToken string) (*Store, string, error) {
	userID, err := UserIDFromToken(accessToken)
	if err != nil {
		return nil, "", err
	}

	client, err := supabase.NewClient(apiURL, apiKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client}, userID, nil
}

// UserIDFromToken extracts the sub claim without verifying the
// signature; Supabase verifies server-side on every query.
func UserIDFromToken(accessToken string) (string, error) {
	accessToken = strings.TrimPrefix(accessToken, "Bearer ")
	if accessToken == "" {
		return "", fmt.Errorf("missing access token")
	}

	token, _, err := new(jwt.Parser).ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("invalid JWT format")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid JWT claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing sub in token")
	}
	return sub, nil
}
