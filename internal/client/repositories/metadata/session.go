package metadata

import (
	"context"
	"encoding/json"
	"fmt"
)

// Session is what a successful login leaves for later commands.
type Session struct {
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

// SaveSession replaces the stored session with s.
func SaveSession(ctx context.Context, r Repository, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.Set(ctx, KeySession, b)
}

// LoadSession returns nil, nil when nobody is logged in.
func LoadSession(ctx context.Context, r Repository) (*Session, error) {
	b, err := r.Get(ctx, KeySession)
	if err != nil || len(b) == 0 {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, nil
	}
	return &s, nil
}

func ClearSession(ctx context.Context, r Repository) error {
	return r.Delete(ctx, KeySession)
}
