package models

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`\S+@\S+\.\S+`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

const (
	minNameLen     = 3
	minPasswordLen = 6
	phoneDigits    = 10
)

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f LoginForm) Validate() error {
	errs := ValidationErrors{}
	checkEmail(errs, f.Email)
	checkPassword(errs, "password", "Password", f.Password)
	return errs.Err()
}

type RegisterForm struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Phone           string `json:"phone"`
}

func (f RegisterForm) Validate() error {
	errs := ValidationErrors{}

	switch {
	case f.Name == "":
		errs["name"] = "Name is required"
	case len(f.Name) < minNameLen:
		errs["name"] = "Name must be at least 3 characters"
	}

	checkEmail(errs, f.Email)
	checkPassword(errs, "password", "Password", f.Password)

	switch {
	case f.ConfirmPassword == "":
		errs["confirmPassword"] = "Confirm Password is required"
	case f.ConfirmPassword != f.Password:
		errs["confirmPassword"] = "Passwords do not match"
	}

	switch {
	case f.Phone == "":
		errs["phone"] = "Phone is required"
	case len(nonDigitRe.ReplaceAllString(f.Phone, "")) != phoneDigits:
		errs["phone"] = "Phone must be 10 digits"
	}

	return errs.Err()
}

// ProfileForm carries the editable profile fields. Empty fields are left
// unchanged by the backend.
type ProfileForm struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (f ProfileForm) Validate() error {
	errs := ValidationErrors{}
	if f.Name == "" && f.Phone == "" {
		errs["name"] = "Nothing to update"
	}
	if f.Name != "" && len(f.Name) < minNameLen {
		errs["name"] = "Name must be at least 3 characters"
	}
	if f.Phone != "" && len(nonDigitRe.ReplaceAllString(f.Phone, "")) != phoneDigits {
		errs["phone"] = "Phone must be 10 digits"
	}
	return errs.Err()
}

type PasswordForm struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"-"`
}

func (f PasswordForm) Validate() error {
	errs := ValidationErrors{}
	if f.CurrentPassword == "" {
		errs["currentPassword"] = "Current Password is required"
	}
	checkPassword(errs, "newPassword", "New Password", f.NewPassword)
	if f.ConfirmPassword != f.NewPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
	return errs.Err()
}

// PetForm is the raw, user-entered shape of a pet. Numbers and traits stay
// text until ToPet converts them.
type PetForm struct {
	Name        string
	Species     string
	Breed       string
	Age         string
	Gender      string
	Weight      string
	Color       string
	Image       string
	Description string
	Traits      string

	// ImagePath names a local photo to upload. When set, the uploaded URL
	// replaces Image.
	ImagePath string
}

// NewPetForm returns a form with the default species and gender selected.
func NewPetForm() PetForm {
	return PetForm{Species: "Dog", Gender: "Male"}
}

// PetFormFrom pre-fills a form for editing p.
func PetFormFrom(p Pet) PetForm {
	return PetForm{
		Name:        p.Name,
		Species:     p.Species,
		Breed:       p.Breed,
		Age:         strconv.FormatFloat(p.Age, 'f', -1, 64),
		Gender:      p.Gender,
		Weight:      strconv.FormatFloat(p.Weight, 'f', -1, 64),
		Color:       p.Color,
		Image:       p.Image,
		Description: p.Description,
		Traits:      strings.Join(p.Traits, ", "),
	}
}

func (f PetForm) Validate() error {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.Name) == "" {
		errs["name"] = "Name is required"
	}
	if strings.TrimSpace(f.Breed) == "" {
		errs["breed"] = "Breed is required"
	}
	checkNumber(errs, "age", "Age", f.Age)
	checkNumber(errs, "weight", "Weight", f.Weight)
	return errs.Err()
}

// ToPet converts a validated form into a Pet without an id.
func (f PetForm) ToPet() (Pet, error) {
	if err := f.Validate(); err != nil {
		return Pet{}, err
	}
	age, _ := strconv.ParseFloat(strings.TrimSpace(f.Age), 64)
	weight, _ := strconv.ParseFloat(strings.TrimSpace(f.Weight), 64)

	return Pet{
		Name:        strings.TrimSpace(f.Name),
		Species:     f.Species,
		Breed:       strings.TrimSpace(f.Breed),
		Age:         age,
		Gender:      f.Gender,
		Weight:      weight,
		Color:       f.Color,
		Image:       f.Image,
		Description: f.Description,
		Traits:      ParseTraits(f.Traits),
	}, nil
}

// ParseTraits splits a comma-separated list, trimming blanks and dropping
// empty items. The result is never nil.
func ParseTraits(s string) []string {
	out := []string{}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func checkEmail(errs ValidationErrors, email string) {
	switch {
	case email == "":
		errs["email"] = "Email is required"
	case !emailRe.MatchString(email):
		errs["email"] = "Email is invalid"
	}
}

func checkPassword(errs ValidationErrors, field, label, pw string) {
	switch {
	case pw == "":
		errs[field] = label + " is required"
	case len(pw) < minPasswordLen:
		errs[field] = label + " must be at least 6 characters"
	}
}

func checkNumber(errs ValidationErrors, field, label, v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		errs[field] = label + " is required"
		return
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		errs[field] = label + " must be a number"
	}
}
