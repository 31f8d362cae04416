package services

import (
	"context"
	"fmt"
	"sync"

	"nearwave/internal/client/client"
	"nearwave/internal/client/models"
	"nearwave/internal/logging"
)

// DirectoryState is the lifecycle of the remote directory cache.
type DirectoryState int

const (
	DirectoryIdle DirectoryState = iota
	DirectoryLoading
	DirectoryReady
	DirectoryError
)

// DirectorySnapshot is a point-in-time copy of the directory cache. Readers
// must not treat it as a live index: a RemoteUser resolved from one snapshot
// can be gone from the next.
type DirectorySnapshot struct {
	State        DirectoryState
	Users        []models.RemoteUser
	LastDistance int
	LastErr      string
	Scanned      bool
}

// DiscoveryService owns the remote directory cache. It is the single writer
// of the snapshot; everyone else reads copies.
//
// Overlapping scans are resolved requested-wins: every scan takes a
// monotonically increasing sequence number and a completing scan applies
// its result only if it is still the newest one issued. A slow response
// from an older scan can therefore never overwrite a newer snapshot.
type DiscoveryService struct {
	api     client.API
	log     logging.Logger
	sess    *SessionService
	follows *FollowService

	defaultRadius int

	mu           sync.Mutex
	state        DirectoryState
	users        []models.RemoteUser
	lastDistance int
	lastErr      string
	scanned      bool
	seq          uint64
	// known is the append-only resolution index: every user seen in any
	// successful fetch, regardless of what is currently visible. Profile
	// and follow lookups resolve against it so they do not depend on the
	// active scan radius.
	known map[string]models.RemoteUser
}

// Snapshot returns a copy of the current directory cache.
func (d *DiscoveryService) Snapshot() DirectorySnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	users := make([]models.RemoteUser, len(d.users))
	copy(users, d.users)
	return DirectorySnapshot{
		State:        d.state,
		Users:        users,
		LastDistance: d.lastDistance,
		LastErr:      d.lastErr,
		Scanned:      d.scanned,
	}
}

// Resolve looks up a remote user by id in the resolution index. It keeps
// working for users that have dropped out of the visible snapshot.
func (d *DiscoveryService) Resolve(id string) (models.RemoteUser, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.known[id]
	return u, ok
}

// Scan fetches the directory bounded by maxDistance. The distance filter is
// applied client-side regardless of any server-side filtering. On success
// the snapshot is replaced and the follow cache is pruned to the visible id
// set; on failure the previous users stay visible and LastErr is set.
func (d *DiscoveryService) Scan(ctx context.Context, maxDistance int) error {
	return d.scan(ctx, maxDistance, true, true)
}

// Preload fills the directory at the configured default radius after a
// login or restore. It does not mark the directory as scanned and does not
// prune the follow cache: it warms caches for views that have not asked for
// a scan yet.
func (d *DiscoveryService) Preload(ctx context.Context) error {
	return d.scan(ctx, d.defaultRadius, false, false)
}

func (d *DiscoveryService) scan(ctx context.Context, maxDistance int, markScanned, prune bool) error {
	epoch := d.sess.Epoch()

	d.mu.Lock()
	d.seq++
	mySeq := d.seq
	d.state = DirectoryLoading
	d.lastErr = ""
	if markScanned {
		d.lastDistance = maxDistance
		d.scanned = true
	}
	d.mu.Unlock()

	all, err := d.api.ListUsers(ctx)

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.sess.Epoch() != epoch {
		// The session ended while we were in flight; drop the result.
		d.log.Debug(ctx, "discarding scan result from previous session")
		return nil
	}
	if mySeq != d.seq {
		// A newer scan was requested; the directory must reflect the most
		// recently requested scan, not the most recently completed one.
		d.log.Debug(ctx, "discarding superseded scan result", "seq", mySeq)
		return nil
	}

	if err != nil {
		d.state = DirectoryError
		d.lastErr = fmt.Sprintf("failed to fetch remote users: %v", err)
		d.log.Error(ctx, "scan failed", "radius", maxDistance, "err", err)
		return err
	}

	filtered := make([]models.RemoteUser, 0, len(all))
	for _, u := range all {
		d.known[u.ID] = u
		if u.Distance <= maxDistance {
			filtered = append(filtered, u)
		}
	}

	d.users = filtered
	d.state = DirectoryReady
	d.log.Info(ctx, "scan finished", "radius", maxDistance, "visible", len(filtered), "fetched", len(all))

	if prune {
		visible := make(map[string]struct{}, len(filtered))
		for _, u := range filtered {
			visible[u.ID] = struct{}{}
		}
		d.follows.Prune(visible)
	}
	return nil
}

// Reset returns the cache to its initial empty form, including the
// resolution index. Called by SessionService.Clear.
func (d *DiscoveryService) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = DirectoryIdle
	d.users = nil
	d.lastDistance = 0
	d.lastErr = ""
	d.scanned = false
	d.known = make(map[string]models.RemoteUser)
}
