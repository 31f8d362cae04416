package client

import (
	"context"

	"nearwave/internal/client/models"
)

// API is the typed contract for the remote directory/follow service.
//
// The directory is not assumed to filter by distance server-side; callers
// apply their own distance cut. Follow edges are owned by the service and
// identified by the id it assigns.
type API interface {
	// ListUsers returns the full remote user directory.
	ListUsers(ctx context.Context) ([]models.RemoteUser, error)

	// ListFollows returns the edges where the given id is the follower.
	ListFollows(ctx context.Context, followerID string) ([]models.FollowEdge, error)

	// ListAllFollows returns the unfiltered global edge set, used for
	// follower/following counters.
	ListAllFollows(ctx context.Context) ([]models.FollowEdge, error)

	// CreateFollow creates a directed edge and returns it as stored by the
	// service, including the assigned edge id.
	CreateFollow(ctx context.Context, followerID, followedID string) (*models.FollowEdge, error)

	// DeleteFollow removes the edge with the given id.
	DeleteFollow(ctx context.Context, edgeID string) error
}
