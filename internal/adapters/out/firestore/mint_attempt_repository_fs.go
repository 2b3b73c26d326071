// internal/adapters/out/firestore/mint_attempt_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	madom "scratchmint/internal/domain/mintattempt"
)

const mintAttemptsCollection = "mint_attempts"

var (
	ErrFirestoreClientNil  = errors.New("firestore client is nil")
	ErrMintAttemptConflict = errors.New("mintattempt: conflict")
)

// MintAttemptRepositoryFS implements mintattempt.Repository using Firestore.
type MintAttemptRepositoryFS struct {
	Client *firestore.Client
}

var _ madom.Repository = (*MintAttemptRepositoryFS)(nil)

func NewMintAttemptRepositoryFS(client *firestore.Client) *MintAttemptRepositoryFS {
	return &MintAttemptRepositoryFS{Client: client}
}

func (r *MintAttemptRepositoryFS) Create(ctx context.Context, a madom.Attempt) (madom.Attempt, error) {
	if r == nil || r.Client == nil {
		return madom.Attempt{}, ErrFirestoreClientNil
	}

	col := r.Client.Collection(mintAttemptsCollection)

	// ID が空なら自動採番
	var docRef *firestore.DocumentRef
	if strings.TrimSpace(a.ID) == "" {
		docRef = col.NewDoc()
		a.ID = docRef.ID
	} else {
		docRef = col.Doc(a.ID)
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if err := a.Validate(); err != nil {
		return madom.Attempt{}, err
	}

	if _, err := docRef.Create(ctx, attemptToDoc(a)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return madom.Attempt{}, ErrMintAttemptConflict
		}
		return madom.Attempt{}, fmt.Errorf("mint_attempts: create %s: %w", a.ID, err)
	}
	return a, nil
}

func (r *MintAttemptRepositoryFS) ListRecent(ctx context.Context, limit int) ([]madom.Attempt, error) {
	if r == nil || r.Client == nil {
		return nil, ErrFirestoreClientNil
	}

	iter := r.Client.Collection(mintAttemptsCollection).
		OrderBy("createdAt", firestore.Desc).
		Limit(madom.NormalizeLimit(limit)).
		Documents(ctx)
	defer iter.Stop()

	var out []madom.Attempt
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("mint_attempts: list: %w", err)
		}
		out = append(out, attemptFromDoc(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}

// ============================================================
// mapping
// ============================================================

// attemptToDoc は Firestore に保存するデータへ明示的にマッピングします。
func attemptToDoc(a madom.Attempt) map[string]any {
	data := map[string]any{
		"wallet":       a.Wallet,
		"candyMachine": a.CandyMachine,
		"outcome":      string(a.Outcome),
		"message":      a.Message,
		"createdAt":    a.CreatedAt.UTC(),
	}
	// signature（送信前の失敗では空）
	if a.Signature != "" {
		data["signature"] = a.Signature
	}
	return data
}

func attemptFromDoc(id string, data map[string]any) madom.Attempt {
	a := madom.Attempt{ID: id}
	a.Wallet, _ = data["wallet"].(string)
	a.CandyMachine, _ = data["candyMachine"].(string)
	a.Signature, _ = data["signature"].(string)
	a.Message, _ = data["message"].(string)
	if s, ok := data["outcome"].(string); ok {
		a.Outcome = madom.Outcome(s)
	}
	if t, ok := data["createdAt"].(time.Time); ok {
		a.CreatedAt = t.UTC()
	}
	return a
}
