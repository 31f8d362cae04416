package server

import "nearwave/internal/client/models"

// SeedDemo fills the store with a small directory so the client works out
// of the box. Distances are spread across the usual scan range.
func (s *Store) SeedDemo() {
	demo := []models.RemoteUser{
		{
			ID: "r1", FirstName: "Eva", LastName: "Morales", Bio: "vinyl collector", Distance: 8,
			NowPlaying: &models.Track{Title: "Gata Only", Artist: "Cris MJ", Album: "Single", Genre: "Urbano", DurationSec: 142},
		},
		{
			ID: "r2", FirstName: "Leo", LastName: "Paredes", Bio: "bass player", Distance: 23,
			NowPlaying: &models.Track{Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Genre: "Pop", DurationSec: 200},
		},
		{
			ID: "r3", FirstName: "Maite", LastName: "Silva", Distance: 47,
			NowPlaying: &models.Track{Title: "Marisola", Artist: "Cris MJ", Album: "Partyson", Genre: "Urbano", DurationSec: 170},
		},
		{
			ID: "r4", FirstName: "Nico", LastName: "Fuentes", Bio: "always at gigs", Distance: 72,
		},
		{
			ID: "r5", FirstName: "Sofia", LastName: "Vergara", Distance: 95,
			NowPlaying: &models.Track{Title: "bad guy", Artist: "Billie Eilish", Album: "WHEN WE ALL FALL ASLEEP, WHERE DO WE GO?", Genre: "Pop", DurationSec: 194},
		},
		{
			ID: "r6", FirstName: "Dante", LastName: "Reyes", Bio: "out of range most days", Distance: 140,
		},
	}

	for _, u := range demo {
		s.AddUser(u)
	}
}
