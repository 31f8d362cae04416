package services

import (
	"context"
	"fmt"
	"sync"

	"nearwave/internal/client/client"
	"nearwave/internal/client/models"
	"nearwave/internal/common"
	"nearwave/internal/logging"
)

// FollowService owns the follow-graph caches.
//
// outgoing holds the local user's own follow edges keyed by followed id.
// An edge enters the map only after the remote create succeeds and leaves
// only after the remote delete succeeds; there is no optimistic entry, so
// the UI can never show a follow state the server rejected.
//
// global is the best-effort unfiltered edge set used for follower/following
// counters of arbitrary users. It may lag the server; callers must treat
// counts as approximate and refresh on demand.
type FollowService struct {
	api  client.API
	log  logging.Logger
	sess *SessionService

	mu       sync.Mutex
	outgoing map[string]models.FollowEdge
	global   []models.FollowEdge
	// inflight guards Toggle per target id; the value is the session epoch
	// the toggle started in, so a guard left by a pre-logout toggle cannot
	// clobber one taken by the next session.
	inflight map[string]uint64
}

// SeedOutgoing rebuilds the outgoing map from the remote edge list of the
// given follower. Called after login/restore.
func (f *FollowService) SeedOutgoing(ctx context.Context, followerID string) error {
	epoch := f.sess.Epoch()

	edges, err := f.api.ListFollows(ctx, followerID)
	if err != nil {
		return fmt.Errorf("failed to load follows: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess.Epoch() != epoch {
		return nil
	}

	f.outgoing = make(map[string]models.FollowEdge, len(edges))
	for _, e := range edges {
		f.outgoing[e.FollowedID] = e
	}
	return nil
}

// RefreshGlobal replaces the global edge set from the remote service.
func (f *FollowService) RefreshGlobal(ctx context.Context) error {
	epoch := f.sess.Epoch()

	edges, err := f.api.ListAllFollows(ctx)
	if err != nil {
		return fmt.Errorf("failed to load global follows: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess.Epoch() != epoch {
		return nil
	}
	f.global = edges
	return nil
}

// Outgoing returns a copy of the outgoing map.
func (f *FollowService) Outgoing() map[string]models.FollowEdge {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]models.FollowEdge, len(f.outgoing))
	for k, v := range f.outgoing {
		out[k] = v
	}
	return out
}

// IsFollowing reports whether the local user has a confirmed edge toward id.
func (f *FollowService) IsFollowing(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.outgoing[id]
	return ok
}

// FollowersOf returns the follower ids of userID, computed purely from the
// global edge set.
func (f *FollowService) FollowersOf(userID string) map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]struct{})
	for _, e := range f.global {
		if e.FollowedID == userID {
			out[e.FollowerID] = struct{}{}
		}
	}
	return out
}

// FollowingOf returns the ids userID follows, computed purely from the
// global edge set.
func (f *FollowService) FollowingOf(userID string) map[string]struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]struct{})
	for _, e := range f.global {
		if e.FollowerID == userID {
			out[e.FollowedID] = struct{}{}
		}
	}
	return out
}

// Prune drops outgoing entries whose key is not in the visible id set.
// This scopes the "following" display to the current scan; the remote
// edges themselves are untouched — this must never turn into a delete.
func (f *FollowService) Prune(visible map[string]struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id := range f.outgoing {
		if _, ok := visible[id]; !ok {
			delete(f.outgoing, id)
		}
	}
}

// Toggle creates or deletes the follow edge toward targetID, deciding from
// the outgoing cache. The local mutation happens only after the remote call
// is confirmed; on failure the caches are left untouched and the error is
// surfaced. A second Toggle for the same target while one is in flight
// returns common.ErrToggleInFlight without issuing a remote call.
func (f *FollowService) Toggle(ctx context.Context, targetID string) error {
	current := f.sess.CurrentUser()
	if current == nil {
		return fmt.Errorf("%w: you must log in to follow users", common.ErrUnauthorized)
	}

	epoch := f.sess.Epoch()

	f.mu.Lock()
	if _, busy := f.inflight[targetID]; busy {
		f.mu.Unlock()
		return common.ErrToggleInFlight
	}
	f.inflight[targetID] = epoch
	existing, has := f.outgoing[targetID]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		if f.inflight[targetID] == epoch {
			delete(f.inflight, targetID)
		}
		f.mu.Unlock()
	}()

	if has {
		if err := f.api.DeleteFollow(ctx, existing.ID); err != nil {
			return fmt.Errorf("failed to unfollow: %w", err)
		}

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.sess.Epoch() != epoch {
			return nil
		}
		delete(f.outgoing, targetID)
		f.global = removeEdge(f.global, existing.ID)
		f.log.Info(ctx, "unfollowed", "target", targetID, "edge", existing.ID)
		return nil
	}

	edge, err := f.api.CreateFollow(ctx, current.ID, targetID)
	if err != nil {
		return fmt.Errorf("failed to follow: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sess.Epoch() != epoch {
		return nil
	}
	f.outgoing[targetID] = *edge
	f.global = append(f.global, *edge)
	f.log.Info(ctx, "followed", "target", targetID, "edge", edge.ID)
	return nil
}

// Reset returns both caches to their initial empty form. Called by
// SessionService.Clear.
func (f *FollowService) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outgoing = make(map[string]models.FollowEdge)
	f.global = nil
	f.inflight = make(map[string]uint64)
}

func removeEdge(edges []models.FollowEdge, edgeID string) []models.FollowEdge {
	out := edges[:0]
	for _, e := range edges {
		if e.ID != edgeID {
			out = append(out, e)
		}
	}
	return out
}
