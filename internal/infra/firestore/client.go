// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// ClientWrapper は Firestore クライアントとその設定をラップします。
type ClientWrapper struct {
	Client    *firestore.Client
	ProjectID string
}

// NewClient は Firestore クライアントを初期化します。
// credentialsFile が空文字の場合、ADC(Application Default Credentials)を使用します。
func NewClient(ctx context.Context, projectID string, credentialsFile string) (*ClientWrapper, error) {
	if projectID == "" {
		return nil, fmt.Errorf("firestore: projectID is empty")
	}
	var (
		client *firestore.Client
		err    error
	)
	if credentialsFile != "" {
		client, err = firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	log.Printf("[firestore] connected (project: %s)", projectID)
	return &ClientWrapper{Client: client, ProjectID: projectID}, nil
}

// Collection returns the named collection, or nil when the client is not set.
func (cw *ClientWrapper) Collection(name string) *firestore.CollectionRef {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Collection(name)
}

// Close は Firestore クライアントをクローズします。
func (cw *ClientWrapper) Close() error {
	if cw == nil || cw.Client == nil {
		return nil
	}
	return cw.Client.Close()
}
