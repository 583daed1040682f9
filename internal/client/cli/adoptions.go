package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
)

// Apply submits an adoption application for petID.
func (a *App) Apply(ctx context.Context, petID string) error {
	if _, err := a.adoptions.Apply(ctx, petID); err != nil {
		return a.report(err, a.adoptions.Snapshot().Error)
	}
	a.printSuccess()
	return nil
}

func (a *App) MyApplications(ctx context.Context) error {
	if _, err := a.adoptions.FetchMine(ctx); err != nil {
		return a.report(err, a.adoptions.Snapshot().Error)
	}
	renderMyApplications(a.out, a.adoptions.Snapshot().Mine)
	return nil
}

func (a *App) AllApplications(ctx context.Context) error {
	if _, err := a.adoptions.FetchAll(ctx); err != nil {
		return a.report(err, a.adoptions.Snapshot().Error)
	}
	renderAllApplications(a.out, a.adoptions.Snapshot().All)
	return nil
}

// Decide approves or rejects application id.
func (a *App) Decide(ctx context.Context, id string, status models.ApplicationStatus) error {
	if _, err := a.adoptions.UpdateStatus(ctx, id, status); err != nil {
		return a.report(err, a.adoptions.Snapshot().Error)
	}
	a.printSuccess()
	return nil
}

// printSuccess shows the store's success notice once.
func (a *App) printSuccess() {
	if msg := a.adoptions.Snapshot().SuccessMessage; msg != "" {
		fmt.Fprintln(a.out, msg)
		a.adoptions.ClearSuccessMessage()
	}
}
