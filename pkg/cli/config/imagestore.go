package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/snapnote-lab/snapnote/pkg/domain/interfaces"
	"github.com/snapnote-lab/snapnote/pkg/service/imagestore"
	"github.com/snapnote-lab/snapnote/pkg/utils/logging"
)

// ImageStore holds CLI flags for screenshot image storage configuration
type ImageStore struct {
	bucket string
	prefix string
}

// Flags returns CLI flags for image store configuration
func (x *ImageStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "image-bucket",
			Usage:       "Google Cloud Storage bucket for screenshot images (in-memory store when empty)",
			Sources:     cli.EnvVars("SNAPNOTE_IMAGE_BUCKET"),
			Destination: &x.bucket,
		},
		&cli.StringFlag{
			Name:        "image-prefix",
			Usage:       "Object name prefix inside the image bucket",
			Sources:     cli.EnvVars("SNAPNOTE_IMAGE_PREFIX"),
			Destination: &x.prefix,
		},
	}
}

// Configure initializes the image store. Without a bucket the in-memory
// store is used.
func (x *ImageStore) Configure(ctx context.Context) (interfaces.ImageStore, error) {
	if x.bucket == "" {
		logging.Default().Info("Using in-memory image store (development mode)")
		return imagestore.NewMemory(), nil
	}

	store, err := imagestore.NewGCS(ctx, x.bucket, imagestore.WithObjectPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to initialize GCS image store")
	}
	logging.Default().Info("Using GCS image store", "bucket", x.bucket, "prefix", x.prefix)
	return store, nil
}
