package models

import (
	"bytes"
	"encoding/json"
	"time"
)

type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "PENDING"
	StatusApproved ApplicationStatus = "APPROVED"
	StatusRejected ApplicationStatus = "REJECTED"
)

// IsDecision reports whether s is a status an admin may set.
func (s ApplicationStatus) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

// Ref points at another document. The backend sends either the bare id or
// the populated document, so both forms decode into Ref.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (r *Ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}

	type plain Ref
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*r = Ref(p)
	return nil
}

// Label is the human-readable name of the referenced document, falling
// back to its id.
func (r Ref) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Application is an adoption request linking an applicant to a pet.
type Application struct {
	ID           string            `json:"_id"`
	Pet          Ref               `json:"petId"`
	Applicant    Ref               `json:"userId"`
	Status       ApplicationStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	ApprovedDate *time.Time        `json:"approvedDate,omitempty"`
}

// Clone returns a copy that shares no pointers with a.
func (a Application) Clone() Application {
	if a.ApprovedDate != nil {
		d := *a.ApprovedDate
		a.ApprovedDate = &d
	}
	return a
}
