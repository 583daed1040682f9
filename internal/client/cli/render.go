package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/petadopt/internal/client/client"
	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/dmitrijs2005/petadopt/internal/client/store"
	"github.com/dmitrijs2005/petadopt/internal/common"
)

const dateLayout = "2006-01-02"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// report prints the notice for a failed action and returns err. state is
// the store's error message, used in preference to err when set.
func (a *App) report(err error, state string) error {
	var ve models.ValidationErrors
	switch {
	case errors.As(err, &ve):
		fmt.Fprintln(a.out, "Please fix the following:")
		fields := make([]string, 0, len(ve))
		for f := range ve {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			fmt.Fprintf(a.out, "  - %s: %s\n", f, ve[f])
		}
	case errors.Is(err, store.ErrSuperseded),
		errors.Is(err, context.Canceled),
		errors.Is(err, common.ErrLoginRequired):
		// nothing to show: the user moved on or was already told
	case state != "":
		fmt.Fprintln(a.out, "Error:", state)
	default:
		fmt.Fprintln(a.out, "Error:", client.MessageOf(err, "Request failed"))
	}
	return err
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func orNotSpecified(s string) string {
	if s == "" {
		return "Not specified"
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	return t.Local().Format(dateLayout)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return formatDate(*t)
}

func petStatus(p models.Pet) string {
	if p.Adopted {
		return "Adopted"
	}
	return "Available"
}

func renderPets(w io.Writer, st store.PetsState) {
	if len(st.Pets) == 0 {
		fmt.Fprintln(w, "No pets found")
		fmt.Fprintln(w, "Try adjusting your search filters")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIES\tBREED\tAGE\tGENDER\tSTATUS")
	for _, p := range st.Pets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.ID, p.Name, p.Species, p.Breed, formatNumber(p.Age), orNotSpecified(p.Gender), petStatus(p))
	}
	_ = tw.Flush()

	pg := st.Pagination
	fmt.Fprintf(w, "Page %d of %d (%d pets)\n", pg.CurrentPage, pg.TotalPages, pg.TotalPets)
	if st.FromCache {
		fmt.Fprintln(w, "Showing offline copy")
	}
}

func renderPet(w io.Writer, p models.Pet) {
	fmt.Fprintf(w, "%s\n", p.Name)
	fmt.Fprintf(w, "%s - %s\n", p.Species, p.Breed)
	if p.Adopted {
		fmt.Fprintln(w, "Already Adopted: this lovely pet has found its forever home!")
	} else {
		fmt.Fprintln(w, "Available for Adoption")
	}

	tw := newTable(w)
	fmt.Fprintf(tw, "Age:\t%s years\n", formatNumber(p.Age))
	fmt.Fprintf(tw, "Gender:\t%s\n", orNotSpecified(p.Gender))
	fmt.Fprintf(tw, "Weight:\t%s kg\n", formatNumber(p.Weight))
	fmt.Fprintf(tw, "Color:\t%s\n", orNotSpecified(p.Color))
	if p.Image != "" {
		fmt.Fprintf(tw, "Image:\t%s\n", p.Image)
	}
	_ = tw.Flush()

	if p.Description != "" {
		fmt.Fprintf(w, "About %s:\n  %s\n", p.Name, p.Description)
	}
	if len(p.Traits) > 0 {
		fmt.Fprintf(w, "Personality traits: %s\n", strings.Join(p.Traits, ", "))
	}
}

func renderPetNotFound(w io.Writer) {
	fmt.Fprintln(w, "Pet Not Found")
	fmt.Fprintln(w, "The pet you're looking for doesn't exist or has been removed.")
}

func renderMyApplications(w io.Writer, apps []models.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications yet")
		fmt.Fprintln(w, "Start exploring and apply for pets you'd like to adopt!")
		return
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tPET\tAPPLICATION DATE\tSTATUS")
	for _, ap := range apps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", ap.ID, ap.Pet.Label(), formatDate(ap.CreatedAt), ap.Status)
	}
	_ = tw.Flush()
}

// renderAllApplications groups the admin view by status.
func renderAllApplications(w io.Writer, apps []models.Application) {
	if len(apps) == 0 {
		fmt.Fprintln(w, "No applications yet")
		return
	}

	var pending, approved, rejected []models.Application
	for _, ap := range apps {
		switch ap.Status {
		case models.StatusApproved:
			approved = append(approved, ap)
		case models.StatusRejected:
			rejected = append(rejected, ap)
		default:
			pending = append(pending, ap)
		}
	}

	section := func(title, dateCol string, list []models.Application, date func(models.Application) string) {
		fmt.Fprintf(w, "%s (%d)\n", title, len(list))
		if len(list) == 0 {
			return
		}
		tw := newTable(w)
		fmt.Fprintf(tw, "ID\tPET\tAPPLICANT\tEMAIL\t%s\n", dateCol)
		for _, ap := range list {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ap.ID, ap.Pet.Label(), ap.Applicant.Label(), ap.Applicant.Email, date(ap))
		}
		_ = tw.Flush()
	}

	section("Pending applications", "APPLICATION DATE", pending, func(ap models.Application) string { return formatDate(ap.CreatedAt) })
	section("Approved applications", "APPROVED DATE", approved, func(ap models.Application) string { return formatDatePtr(ap.ApprovedDate) })
	section("Rejected applications", "REJECTED DATE", rejected, func(ap models.Application) string { return formatDate(ap.UpdatedAt) })
}

func renderUser(w io.Writer, u models.User) {
	tw := newTable(w)
	fmt.Fprintf(tw, "Name:\t%s\n", u.Name)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", orNotSpecified(u.Phone))
	fmt.Fprintf(tw, "Role:\t%s\n", u.Role)
	_ = tw.Flush()
}
