package metadata

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/skillswap/internal/client/models"
	"github.com/dmitrijs2005/skillswap/internal/dbx"
)

const (
	sessionPrefix = "session."

	KeyToken  = sessionPrefix + "token"
	KeyUserID = sessionPrefix + "user_id"
)

// CredentialStore persists the session credential under the "session."
// keys. Save writes both keys in one transaction.
type CredentialStore struct {
	db *sql.DB
}

func NewCredentialStore(db *sql.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Load returns the stored credential; a zero value means none is stored.
// SavedAt is the time the token was written.
func (s *CredentialStore) Load(ctx context.Context) (models.StoredCredential, error) {
	recs, err := NewSQLiteRepository(s.db).Scan(ctx, sessionPrefix)
	if err != nil {
		return models.StoredCredential{}, err
	}

	var c models.StoredCredential
	for _, rec := range recs {
		switch rec.Key {
		case KeyToken:
			c.Token = string(rec.Value)
			c.SavedAt = rec.UpdatedAt
		case KeyUserID:
			c.UserID = string(rec.Value)
		}
	}
	if c.Token == "" {
		return models.StoredCredential{}, nil
	}
	return c, nil
}

// Save replaces the stored credential. An empty UserID removes the old one.
func (s *CredentialStore) Save(ctx context.Context, c models.StoredCredential) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := NewSQLiteRepository(tx)

		if err := repo.Set(ctx, KeyToken, []byte(c.Token)); err != nil {
			return err
		}

		if c.UserID == "" {
			return repo.Delete(ctx, KeyUserID)
		}
		return repo.Set(ctx, KeyUserID, []byte(c.UserID))
	})
}

// Clear removes every session key. Clearing an empty store is a no-op.
func (s *CredentialStore) Clear(ctx context.Context) error {
	_, err := NewSQLiteRepository(s.db).DeletePrefix(ctx, sessionPrefix)
	return err
}
