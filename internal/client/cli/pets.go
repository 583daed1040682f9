package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

// parsePetQuery reads "pets [page] [search] [species]". The page may be
// omitted and "-" stands for an empty search.
func parsePetQuery(args []string) models.PetQuery {
	q := models.PetQuery{Page: 1}
	if len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil {
			q.Page = n
			args = args[1:]
		}
	}
	if len(args) > 0 && args[0] != "-" {
		q.Search = args[0]
	}
	if len(args) > 1 {
		q.Species = args[1]
	}
	return q
}

// ListPets fetches one catalogue page. Admins see adopted pets too.
func (a *App) ListPets(ctx context.Context, args []string) error {
	q := parsePetQuery(args)
	q.Admin = a.isAdmin()

	if _, err := a.pets.Fetch(ctx, q); err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}
	renderPets(a.out, a.pets.Snapshot())
	return nil
}

// Cached shows the last page fetched, without touching the network.
func (a *App) Cached(ctx context.Context) error {
	if _, err := a.pets.LoadCached(ctx); err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}
	renderPets(a.out, a.pets.Snapshot())
	return nil
}

func (a *App) ShowPet(ctx context.Context, id string) error {
	pet, err := a.pets.FetchOne(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		renderPetNotFound(a.out)
		return err
	}
	if err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}

	renderPet(a.out, *pet)
	switch {
	case pet.Adopted:
	case !a.isLoggedIn():
		fmt.Fprintln(a.out, "Login to apply for adoption.")
	case !a.isAdmin():
		fmt.Fprintf(a.out, "Type 'apply %s' to apply for adoption.\n", pet.ID)
	}
	return nil
}

func (a *App) AddPet(ctx context.Context) error {
	form, err := a.inputPetForm(models.NewPetForm())
	if err != nil {
		return err
	}
	if _, err := a.pets.Create(ctx, form); err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}
	fmt.Fprintln(a.out, "Pet added successfully")
	return nil
}

func (a *App) EditPet(ctx context.Context, id string) error {
	pet, err := a.pets.FetchOne(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		renderPetNotFound(a.out)
		return err
	}
	if err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}

	form, err := a.inputPetForm(models.PetFormFrom(*pet))
	if err != nil {
		return err
	}
	if _, err := a.pets.Update(ctx, id, form); err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}
	fmt.Fprintln(a.out, "Pet updated successfully")
	return nil
}

func (a *App) DeletePet(ctx context.Context, id string) error {
	ok, err := Confirm(a.reader, "Are you sure you want to delete this pet?", a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.pets.Delete(ctx, id); err != nil {
		return a.report(err, a.pets.Snapshot().Error)
	}
	fmt.Fprintln(a.out, "Pet deleted successfully")
	return nil
}

// inputPetForm walks through every pet field, offering the values of def.
func (a *App) inputPetForm(def models.PetForm) (models.PetForm, error) {
	form := def
	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter name", &form.Name},
		{"Enter species (Dog, Cat, Bird, Rabbit, Other)", &form.Species},
		{"Enter breed", &form.Breed},
		{"Enter age (years)", &form.Age},
		{"Enter gender (Male, Female)", &form.Gender},
		{"Enter weight (kg)", &form.Weight},
		{"Enter color", &form.Color},
		{"Enter image URL", &form.Image},
		{"Enter traits (comma separated)", &form.Traits},
	}
	for _, f := range fields {
		v, err := GetTextWithDefault(a.reader, f.prompt, *f.dst, a.out)
		if err != nil {
			return form, err
		}
		*f.dst = v
	}

	if def.Description != "" {
		fmt.Fprintf(a.out, "Current description: %s\n", def.Description)
	}
	desc, err := GetMultiline(a.reader, "Enter description (empty keeps the current one)", a.out)
	if err != nil {
		return form, err
	}
	if desc != "" {
		form.Description = desc
	}

	if a.config.ImagesEnabled() {
		if form.ImagePath, err = getSimpleText(a.reader, "Enter a local photo to upload (optional)", a.out); err != nil {
			return form, err
		}
	}
	return form, nil
}
