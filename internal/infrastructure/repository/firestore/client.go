package firestore

import (
	"context"
	"fmt"

	gfs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

// getAll drains a query, decoding each document with decode.
func getAll[T any](ctx context.Context, query gfs.Query, decode func(id string, doc T) error) error {
	iter := query.Documents(ctx)
	defer iter.Stop()

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return err
		}

		var doc T
		if err := snap.DataTo(&doc); err != nil {
			return fmt.Errorf("decode document %s: %w", snap.Ref.Path, err)
		}
		if err := decode(snap.Ref.ID, doc); err != nil {
			return err
		}
	}
}
