package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	firebase "firebase.google.com/go"
	fbAuth "firebase.google.com/go/auth"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// InitFirebaseAuth initializes a Firebase Admin SDK auth client from a service
// account file. An empty path falls back to GOOGLE_APPLICATION_CREDENTIALS.
func InitFirebaseAuth(ctx context.Context, credFile string) (*fbAuth.Client, error) {
	if credFile == "" {
		credFile = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	if credFile == "" {
		return nil, errors.New("firebase provider selected but no service account credentials configured")
	}
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credFile))
	if err != nil {
		return nil, err
	}
	return app.Auth(ctx)
}

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// userCreator is the part of the admin client FirebaseIdentity uses.
type userCreator interface {
	CreateUser(ctx context.Context, user *fbAuth.UserToCreate) (*fbAuth.UserRecord, error)
}

// FirebaseIdentity creates users through the admin SDK and verifies passwords
// through the Identity Toolkit REST API. User ids are uuids chosen here so they
// can key the profiles table.
type FirebaseIdentity struct {
	client   userCreator
	apiKey   string
	endpoint string
	http     *http.Client
}

func NewFirebaseIdentity(client *fbAuth.Client, apiKey string) *FirebaseIdentity {
	return &FirebaseIdentity{
		client:   client,
		apiKey:   apiKey,
		endpoint: signInEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (f *FirebaseIdentity) CreateUser(ctx context.Context, email, password, fullName string) (uuid.UUID, error) {
	id := uuid.New()
	params := (&fbAuth.UserToCreate{}).
		UID(id.String()).
		Email(strings.ToLower(strings.TrimSpace(email))).
		Password(password)
	if fullName != "" {
		params = params.DisplayName(fullName)
	}
	if _, err := f.client.CreateUser(ctx, params); err != nil {
		if fbAuth.IsEmailAlreadyExists(err) {
			return uuid.Nil, ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("firebase create user: %w", err)
	}
	return id, nil
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (f *FirebaseIdentity) SignIn(ctx context.Context, email, password string) (uuid.UUID, error) {
	body, err := json.Marshal(map[string]any{
		"email":             strings.ToLower(strings.TrimSpace(email)),
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return uuid.Nil, err
	}
	url := fmt.Sprintf("%s?key=%s", f.endpoint, f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return uuid.Nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := f.http.Do(req)
	if err != nil {
		return uuid.Nil, err
	}
	defer resp.Body.Close()

	var sr signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return uuid.Nil, fmt.Errorf("decode sign-in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest {
			return uuid.Nil, ErrInvalidCredentials
		}
		msg := ""
		if sr.Error != nil {
			msg = sr.Error.Message
		}
		return uuid.Nil, fmt.Errorf("sign-in status %d: %s", resp.StatusCode, msg)
	}
	id, err := uuid.Parse(sr.LocalID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("identity %q is not a service user id", sr.LocalID)
	}
	return id, nil
}
