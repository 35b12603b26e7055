package id

import (
	"strings"

	"github.com/google/uuid"
)

var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://matchday-alerts/ids"))

// Deterministic returns the same id for the same parts, so retried writes and
// re-published messages collapse onto one record.
func Deterministic(parts ...string) string {
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "\x1f"))).String()
}
