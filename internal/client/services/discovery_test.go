package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nearwave/internal/client/models"
)

func directory() []models.RemoteUser {
	return []models.RemoteUser{
		{ID: "r1", FirstName: "Eva", Distance: 10},
		{ID: "r2", FirstName: "Leo", Distance: 80},
	}
}

func TestScan_FiltersByDistanceClientSide(t *testing.T) {
	api := &fakeAPI{users: directory()}
	_, disc, _, _ := newTestServices(t, api)
	ctx := context.Background()

	require.NoError(t, disc.Scan(ctx, 50))

	snap := disc.Snapshot()
	assert.Equal(t, DirectoryReady, snap.State)
	require.Len(t, snap.Users, 1, "r2 at distance 80 must be filtered out")
	assert.Equal(t, "r1", snap.Users[0].ID)
	assert.Equal(t, 50, snap.LastDistance)
	assert.True(t, snap.Scanned)
	assert.Empty(t, snap.LastErr)
}

func TestScan_PrunesOutgoingButNotRemoteEdges(t *testing.T) {
	api := &fakeAPI{users: directory()}
	sess, disc, fol, repo := newTestServices(t, api)
	ctx := context.Background()

	u := registerLocalUser(t, repo, "ana")
	api.follows = []models.FollowEdge{{ID: "e1", FollowerID: u.ID, FollowedID: "r2"}}
	loginAs(t, sess, "ana")
	require.True(t, fol.IsFollowing("r2"))

	// rescan with a radius that excludes r2
	require.NoError(t, disc.Scan(ctx, 50))

	assert.Empty(t, fol.Outgoing(), "edge outside the scan radius must be pruned from the visible map")

	// the remote edge is untouched: the service would still return it
	edges, err := api.ListFollows(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "e1", edges[0].ID)
}

func TestScan_FailureKeepsStaleUsers(t *testing.T) {
	api := &fakeAPI{users: directory()}
	_, disc, _, _ := newTestServices(t, api)
	ctx := context.Background()

	require.NoError(t, disc.Scan(ctx, 100))
	require.Len(t, disc.Snapshot().Users, 2)

	api.mu.Lock()
	api.usersErr = errors.New("connection refused")
	api.mu.Unlock()

	err := disc.Scan(ctx, 100)
	require.Error(t, err)

	snap := disc.Snapshot()
	assert.Equal(t, DirectoryError, snap.State)
	assert.NotEmpty(t, snap.LastErr)
	assert.Len(t, snap.Users, 2, "stale-but-visible is preferred to blank")
}

func TestScan_StaleResponseDoesNotOverwriteNewer(t *testing.T) {
	api := &fakeAPI{users: directory()}
	_, disc, _, _ := newTestServices(t, api)
	ctx := context.Background()

	release := make(chan struct{})
	api.mu.Lock()
	api.beforeListUsersReturn = func(call int) {
		if call == 1 {
			<-release
		}
	}
	api.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = disc.Scan(ctx, 100) // older request, will complete last
	}()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.listUsersCalls >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, disc.Scan(ctx, 50)) // newer request completes first
	close(release)
	wg.Wait()

	snap := disc.Snapshot()
	require.Len(t, snap.Users, 1, "older scan result must be discarded")
	assert.Equal(t, "r1", snap.Users[0].ID)
	assert.Equal(t, 50, snap.LastDistance)
}

func TestScan_ResultFromPreviousSessionIsDiscarded(t *testing.T) {
	api := &fakeAPI{users: directory()}
	sess, disc, _, _ := newTestServices(t, api)
	ctx := context.Background()

	release := make(chan struct{})
	api.mu.Lock()
	api.beforeListUsersReturn = func(call int) { <-release }
	api.mu.Unlock()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = disc.Scan(ctx, 100)
	}()

	require.Eventually(t, func() bool {
		api.mu.Lock()
		defer api.mu.Unlock()
		return api.listUsersCalls >= 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, sess.Clear(ctx))
	close(release)
	wg.Wait()

	snap := disc.Snapshot()
	assert.Equal(t, DirectoryIdle, snap.State, "completion after logout must not touch the fresh state")
	assert.Empty(t, snap.Users)
	assert.False(t, snap.Scanned)
}

func TestResolve_SurvivesNarrowerRescan(t *testing.T) {
	api := &fakeAPI{users: directory()}
	_, disc, _, _ := newTestServices(t, api)
	ctx := context.Background()

	require.NoError(t, disc.Scan(ctx, 100))
	_, ok := disc.Resolve("r2")
	require.True(t, ok)

	require.NoError(t, disc.Scan(ctx, 20))
	require.Len(t, disc.Snapshot().Users, 1, "r2 no longer visible")

	got, ok := disc.Resolve("r2")
	require.True(t, ok, "resolution index must not depend on the visible snapshot")
	assert.Equal(t, "Leo", got.FirstName)
}

func TestPreload_DoesNotMarkScannedOrPrune(t *testing.T) {
	api := &fakeAPI{users: directory()}
	sess, disc, fol, repo := newTestServices(t, api)

	u := registerLocalUser(t, repo, "ana")
	// an edge toward a user far outside the default radius
	api.users = append(api.users, models.RemoteUser{ID: "r3", Distance: 500})
	api.follows = []models.FollowEdge{{ID: "e1", FollowerID: u.ID, FollowedID: "r3"}}
	loginAs(t, sess, "ana")

	snap := disc.Snapshot()
	assert.Equal(t, DirectoryReady, snap.State)
	assert.False(t, snap.Scanned, "preload must not count as a user scan")
	assert.True(t, fol.IsFollowing("r3"), "preload must not prune the follow cache")
}

func TestReset_ClearsResolutionIndex(t *testing.T) {
	api := &fakeAPI{users: directory()}
	_, disc, _, _ := newTestServices(t, api)

	require.NoError(t, disc.Scan(context.Background(), 100))
	_, ok := disc.Resolve("r1")
	require.True(t, ok)

	disc.Reset()
	_, ok = disc.Resolve("r1")
	assert.False(t, ok)
	assert.Equal(t, DirectoryIdle, disc.Snapshot().State)
}
