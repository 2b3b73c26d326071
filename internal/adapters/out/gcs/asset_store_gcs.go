// internal/adapters/out/gcs/asset_store_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"path"
	"strings"

	"cloud.google.com/go/storage"

	assetdom "scratchmint/internal/domain/asset"
)

const defaultAssetPrefix = "assets"

// AssetStoreGCS serves page assets from gs://<Bucket>/<Prefix>/<name>.
type AssetStoreGCS struct {
	Client *storage.Client
	Bucket string
	Prefix string
}

var _ assetdom.Store = (*AssetStoreGCS)(nil)

func NewAssetStoreGCS(client *storage.Client, bucket string) *AssetStoreGCS {
	return &AssetStoreGCS{
		Client: client,
		Bucket: strings.TrimSpace(bucket),
		Prefix: defaultAssetPrefix,
	}
}

// objectPath builds the object path for a cleaned asset name.
func (s *AssetStoreGCS) objectPath(name string) string {
	prefix := strings.Trim(strings.TrimSpace(s.Prefix), "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func (s *AssetStoreGCS) Open(ctx context.Context, name string) (assetdom.Asset, error) {
	if s == nil || s.Client == nil || s.Bucket == "" {
		return assetdom.Asset{}, fmt.Errorf("gcs: asset store not configured")
	}
	n, err := assetdom.CleanName(name)
	if err != nil {
		return assetdom.Asset{}, err
	}
	obj := s.objectPath(n)

	r, err := s.Client.Bucket(s.Bucket).Object(obj).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return assetdom.Asset{}, assetdom.ErrNotFound
		}
		log.Printf("[gcs] open asset failed bucket=%s object=%s err=%v", s.Bucket, obj, err)
		return assetdom.Asset{}, fmt.Errorf("gcs: open %s: %w", obj, err)
	}

	ct := r.Attrs.ContentType
	if ct == "" {
		ct = mime.TypeByExtension(path.Ext(n))
	}
	return assetdom.Asset{Body: r, ContentType: ct, Size: r.Attrs.Size}, nil
}
