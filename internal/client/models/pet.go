package models

// Pet is an adoptable animal as served by the catalogue endpoints.
type Pet struct {
	ID          string   `json:"_id,omitempty"`
	Name        string   `json:"name"`
	Species     string   `json:"species"`
	Breed       string   `json:"breed"`
	Age         float64  `json:"age"`
	Gender      string   `json:"gender"`
	Weight      float64  `json:"weight"`
	Color       string   `json:"color,omitempty"`
	Image       string   `json:"image,omitempty"`
	Description string   `json:"description,omitempty"`
	Traits      []string `json:"traits"`
	Adopted     bool     `json:"adopted"`
}

// Clone returns a copy that shares no slices with p.
func (p Pet) Clone() Pet {
	if p.Traits != nil {
		p.Traits = append([]string(nil), p.Traits...)
	}
	return p
}

type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalPets   int `json:"totalPets"`
}

// PetPage is one page of the catalogue.
type PetPage struct {
	Pets       []Pet      `json:"pets"`
	Pagination Pagination `json:"pagination"`
}

const DefaultPetLimit = 12

// PetQuery selects a catalogue page. Zero values mean page 1, no search,
// all species and DefaultPetLimit items. Admin switches to the admin listing.
type PetQuery struct {
	Page    int
	Search  string
	Species string
	Limit   int
	Admin   bool
}

// Normalized returns q with defaults filled in.
func (q PetQuery) Normalized() PetQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPetLimit
	}
	return q
}
