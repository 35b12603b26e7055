package attendance

import "context"

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]Record, error)
}
