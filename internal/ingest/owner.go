package ingest

import (
	"context"

	"wallfetch/internal/vkapi"
)

// ResolveOwner maps a community handle to its wall owner id. Community
// walls are owned by the negated group id. found is false when the
// lookup returns no group.
func ResolveOwner(ctx context.Context, api vkapi.WallAPI, handle string) (ownerID int64, found bool, err error) {
	groups, err := api.GroupsGetByID(ctx, handle)
	if err != nil {
		return 0, false, err
	}
	if len(groups) == 0 {
		return 0, false, nil
	}
	return -groups[0].ID, true, nil
}
