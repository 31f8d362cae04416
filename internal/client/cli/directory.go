package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"nearwave/internal/client/services"
	"nearwave/internal/common"
)

// Scan runs a directory scan bounded by the given radius in meters and
// prints the result. Without an argument the configured default radius is
// used.
func (a *App) Scan(ctx context.Context, args []string) error {
	radius := a.config.DefaultScanRadius
	if len(args) > 0 {
		r, err := strconv.Atoi(args[0])
		if err != nil || r < 0 {
			fmt.Println("Usage: scan [radius-in-meters]")
			return nil
		}
		radius = r
	}

	if err := a.disc.Scan(ctx, radius); err != nil {
		fmt.Println("Scan failed:", err)
		return err
	}
	return a.List(ctx)
}

// List prints the users from the most recent scan. Users you follow are
// marked with an asterisk.
func (a *App) List(ctx context.Context) error {
	snap := a.disc.Snapshot()

	switch snap.State {
	case services.DirectoryIdle:
		fmt.Println("No scan yet. Try 'scan'.")
		return nil
	case services.DirectoryError:
		fmt.Println("Last scan failed:", snap.LastErr)
		fmt.Println("Showing the previous result.")
	}

	if len(snap.Users) == 0 {
		fmt.Println("Nobody around.")
		return nil
	}

	for _, u := range snap.Users {
		marker := " "
		if a.follows.IsFollowing(u.ID) {
			marker = "*"
		}
		line := fmt.Sprintf("%s %-12s %s %s  %dm", marker, u.ID, u.FirstName, u.LastName, u.Distance)
		if u.NowPlaying != nil {
			line += fmt.Sprintf("  [%s by %s]", u.NowPlaying.Title, u.NowPlaying.Artist)
		}
		fmt.Println(line)
	}
	return nil
}

// Follow toggles the follow edge toward the given user id.
func (a *App) Follow(ctx context.Context, id string) error {
	if err := a.follows.Toggle(ctx, id); err != nil {
		if errors.Is(err, common.ErrToggleInFlight) {
			fmt.Println("The previous request for this user is still running, try again in a moment.")
			return err
		}
		fmt.Println("Follow failed:", err)
		return err
	}

	name := id
	if u, ok := a.disc.Resolve(id); ok {
		name = u.FirstName
	}
	if a.follows.IsFollowing(id) {
		fmt.Printf("You now follow %s.\n", name)
	} else {
		fmt.Printf("You no longer follow %s.\n", name)
	}
	return nil
}

// Following lists the users you follow, scoped to the current scan.
func (a *App) Following(ctx context.Context) error {
	out := a.follows.Outgoing()
	if len(out) == 0 {
		fmt.Println("You are not following anyone nearby.")
		return nil
	}

	ids := make([]string, 0, len(out))
	for id := range out {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Println(a.displayName(id))
	}
	return nil
}

// Followers refreshes the global edge set and lists who follows you.
func (a *App) Followers(ctx context.Context) error {
	u := a.sess.CurrentUser()
	if u == nil {
		fmt.Println("You must log in first.")
		return nil
	}

	if err := a.follows.RefreshGlobal(ctx); err != nil {
		fmt.Println("Could not refresh follower data:", err)
		return err
	}

	followers := a.follows.FollowersOf(u.ID)
	fmt.Printf("%d follower(s)\n", len(followers))

	ids := make([]string, 0, len(followers))
	for id := range followers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		fmt.Println(a.displayName(id))
	}
	return nil
}

// displayName resolves id against the directory index, falling back to the
// raw id for users the client has never fetched.
func (a *App) displayName(id string) string {
	if u, ok := a.disc.Resolve(id); ok {
		return fmt.Sprintf("%s  %s %s", id, u.FirstName, u.LastName)
	}
	return id
}
