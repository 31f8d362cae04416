// Package services contains the orchestration core of the nearwave client:
// the session lifecycle, the distance-bounded discovery scan, and the
// follow/unfollow toggle protocol.
//
// Each cache (session state, directory snapshot, follow graph) has exactly
// one owning service that writes it. Cross-session hygiene is enforced by a
// session epoch: every remote operation captures the epoch when it starts
// and re-checks it before applying its result, so completions that straddle
// a logout never leak into a later session.
package services

import (
	"nearwave/internal/client/client"
	"nearwave/internal/client/models"
	"nearwave/internal/client/repositories/session"
	"nearwave/internal/client/repositories/users"
	"nearwave/internal/logging"
)

// NewServices wires the three collaborating services around shared
// dependencies. defaultRadius is the radius used for the post-login
// directory preload.
func NewServices(api client.API, usersRepo users.Repository, sessionRepo session.Repository, log logging.Logger, defaultRadius int) (*SessionService, *DiscoveryService, *FollowService) {
	sess := &SessionService{
		users:   usersRepo,
		session: sessionRepo,
		log:     log.With("component", "session"),
		state:   StateUnchecked,
	}

	follows := &FollowService{
		api:      api,
		log:      log.With("component", "follow"),
		sess:     sess,
		outgoing: make(map[string]models.FollowEdge),
		inflight: make(map[string]uint64),
	}

	discovery := &DiscoveryService{
		api:           api,
		log:           log.With("component", "discovery"),
		sess:          sess,
		follows:       follows,
		defaultRadius: defaultRadius,
		known:         make(map[string]models.RemoteUser),
	}

	sess.discovery = discovery
	sess.follows = follows

	return sess, discovery, follows
}
