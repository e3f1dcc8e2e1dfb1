package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	switch {
	case a.loginRequired.Load():
		return "(login required)"
	case !a.isLoggedIn():
		return ""
	}
	if info, ok := a.session.Info(); ok && info.UserID != "" {
		return fmt.Sprintf("(%s)", info.UserID)
	}
	return "(logged in)"
}

// start restores the saved session and seeds the city list. The network
// refresh of the list is left to the caller.
func (a *App) start(ctx context.Context) {
	restored, err := a.authService.Restore(ctx)
	if err != nil {
		a.log.Warn(ctx, "restoring session failed", "error", err)
	}
	if restored {
		a.log.Info(ctx, "session restored")
	}

	a.cities.Load(ctx)
}

// watchCities logs every change of the city list until ctx is done.
func (a *App) watchCities(ctx context.Context) {
	updates, stop := a.cities.Subscribe()
	defer stop()

	for {
		select {
		case list, ok := <-updates:
			if !ok {
				return
			}
			first := ""
			if len(list) > 0 {
				first = list[0]
			}
			a.log.Debug(ctx, "city list updated", "count", len(list), "first", first)
		case <-ctx.Done():
			return
		}
	}
}

// Root runs the interactive session and blocks until the user exits and the
// background city refresh has finished.
func (a *App) Root(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	printlnFn("Welcome to Tealives CLI (type 'help' for commands)")

	a.start(ctx)

	refreshed := make(chan struct{})
	go a.watchCities(ctx)
	go func() {
		defer close(refreshed)
		a.cities.Refresh(ctx)
	}()

	runREPL(ctx, a, a.getStatus, a.reader)

	// The refresh may still be persisting; Run closes the database after us.
	cancel()
	<-refreshed
}
