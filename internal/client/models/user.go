// Package models defines the client-side domain types: locally registered
// users, remote directory users, follow edges, and tracks.
package models

// LocalUser is an account registered on this device. It is owned by the
// users repository; services hold it by reference to the authenticated id,
// never as a second source of truth.
//
// Password carries the plaintext only on the way into the repository
// (registration); users read back from storage have it empty.
type LocalUser struct {
	ID         string
	FirstName  string
	LastName   string
	Username   string
	Email      string
	Password   string
	Birthdate  string
	NowPlaying *Track
	Distance   int
}

// RemoteUser is an entry of the remotely hosted directory. It is externally
// owned and only ever read by this client.
type RemoteUser struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Bio        string `json:"bio,omitempty"`
	Distance   int    `json:"distance"`
	NowPlaying *Track `json:"song,omitempty"`
	AvatarURL  string `json:"avatarUrl,omitempty"`
}
