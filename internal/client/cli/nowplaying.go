package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"nearwave/internal/client/models"
)

// SongCatalog is the built-in track list a user can pick their current
// song from. There is no real player behind the client, so the catalog
// stands in for whatever is playing.
var SongCatalog = []models.Track{
	{Title: "Gata Only", Artist: "Cris MJ", Album: "Single", Genre: "Urbano", DurationSec: 142},
	{Title: "Marisola", Artist: "Cris MJ", Album: "Partyson", Genre: "Urbano", DurationSec: 170},
	{Title: "Blinding Lights", Artist: "The Weeknd", Album: "After Hours", Genre: "Pop", DurationSec: 200},
	{Title: "bad guy", Artist: "Billie Eilish", Album: "WHEN WE ALL FALL ASLEEP, WHERE DO WE GO?", Genre: "Pop", DurationSec: 194},
	{Title: "Bohemian Rhapsody", Artist: "Queen", Album: "A Night at the Opera", Genre: "Rock", DurationSec: 354},
	{Title: "Smells Like Teen Spirit", Artist: "Nirvana", Album: "Nevermind", Genre: "Rock", DurationSec: 301},
	{Title: "One More Time", Artist: "Daft Punk", Album: "Discovery", Genre: "Electronic", DurationSec: 320},
	{Title: "Tití Me Preguntó", Artist: "Bad Bunny", Album: "Un Verano Sin Ti", Genre: "Urbano", DurationSec: 243},
}

// NowPlaying sets the current user's track from the catalog. With a numeric
// argument the track is picked directly; without one the catalog is printed
// and the user is prompted. Index 0 stops playing.
func (a *App) NowPlaying(ctx context.Context, args []string) error {
	if a.sess.CurrentUser() == nil {
		fmt.Println("You must log in first.")
		return nil
	}

	pick := ""
	if len(args) > 0 {
		pick = args[0]
	} else {
		for i, tr := range SongCatalog {
			fmt.Printf("%2d. %s by %s\n", i+1, tr.Title, tr.Artist)
		}
		fmt.Println(" 0. stop playing")
		var err error
		pick, err = getSimpleText(a.reader, "Pick a track number", os.Stdout)
		if err != nil {
			return err
		}
	}

	n, err := strconv.Atoi(pick)
	if err != nil || n < 0 || n > len(SongCatalog) {
		fmt.Printf("Usage: nowplaying [0..%d]\n", len(SongCatalog))
		return nil
	}

	var track *models.Track
	if n > 0 {
		track = &SongCatalog[n-1]
	}

	if err := a.sess.UpdateNowPlaying(ctx, track); err != nil {
		fmt.Println("Could not update now playing:", err)
		return err
	}

	if track == nil {
		fmt.Println("Stopped playing.")
	} else {
		fmt.Printf("Now playing: %s by %s\n", track.Title, track.Artist)
	}
	return nil
}
