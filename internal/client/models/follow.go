package models

// FollowEdge is a directed follow relationship between two user ids,
// uniquely identified by the id assigned by the remote service.
type FollowEdge struct {
	ID         string `json:"id"`
	FollowerID string `json:"followerId"`
	FollowedID string `json:"followedId"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// FollowRequest is the body sent to create a follow edge.
type FollowRequest struct {
	FollowerID string `json:"followerId"`
	FollowedID string `json:"followedId"`
}
