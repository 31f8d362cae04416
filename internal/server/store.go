// Package server implements nearwaved, the development stand-in for the
// hosted directory/follow service the client consumes. State is in-memory;
// restarting the server resets it.
package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"nearwave/internal/client/models"
	"nearwave/internal/common"
)

// Store holds the directory of remote users and the follow edge set.
type Store struct {
	mu      sync.RWMutex
	users   map[string]models.RemoteUser
	order   []string
	follows map[string]models.FollowEdge
}

func NewStore() *Store {
	return &Store{
		users:   make(map[string]models.RemoteUser),
		follows: make(map[string]models.FollowEdge),
	}
}

// AddUser inserts or replaces a directory entry.
func (s *Store) AddUser(u models.RemoteUser) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		s.order = append(s.order, u.ID)
	}
	s.users[u.ID] = u
}

// Users lists the directory in insertion order.
func (s *Store) Users() []models.RemoteUser {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.RemoteUser, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.users[id])
	}
	return out
}

// HasUser reports whether id is in the directory.
func (s *Store) HasUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}

// Follows lists edges, filtered by follower when followerID is non-empty.
func (s *Store) Follows(followerID string) []models.FollowEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FollowEdge, 0, len(s.follows))
	for _, e := range s.follows {
		if followerID == "" || e.FollowerID == followerID {
			out = append(out, e)
		}
	}
	return out
}

// CreateFollow stores a new edge with a generated id.
//
// Blank ids are rejected. The followed id must be a directory entry; the
// follower id is a client-local account id the directory has never seen, so
// only its presence is checked. Pair uniqueness is deliberately NOT
// enforced, matching the hosted service the client was built against.
func (s *Store) CreateFollow(followerID, followedID string) (*models.FollowEdge, error) {
	if followerID == "" || followedID == "" {
		return nil, fmt.Errorf("%w: followerId and followedId are required", common.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[followedID]; !ok {
		return nil, fmt.Errorf("%w: followed user %s", common.ErrNotFound, followedID)
	}

	e := models.FollowEdge{
		ID:         uuid.NewString(),
		FollowerID: followerID,
		FollowedID: followedID,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	s.follows[e.ID] = e
	return &e, nil
}

// DeleteFollow removes the edge with the given id.
func (s *Store) DeleteFollow(edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.follows[edgeID]; !ok {
		return fmt.Errorf("%w: edge %s", common.ErrNotFound, edgeID)
	}
	delete(s.follows, edgeID)
	return nil
}
