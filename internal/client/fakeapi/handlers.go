package fakeapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/petadopt/internal/client/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *Server) authResult(u models.User) map[string]any {
	return map[string]any{"token": s.Token(u.ID), "user": u}
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginForm
	if !decode(w, r, &req) {
		return
	}

	s.mu.Lock()
	acc := s.accounts[s.byEmail[strings.ToLower(req.Email)]]
	s.mu.Unlock()

	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(req.Password)) != nil {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true, "message": "Login successful", "data": s.authResult(acc.user),
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterForm
	if !decode(w, r, &req) {
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Please provide all required fields")
		return
	}

	s.mu.Lock()
	_, taken := s.byEmail[strings.ToLower(req.Email)]
	s.mu.Unlock()
	if taken {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	u := s.AddUser(req.Name, req.Email, req.Password, req.Phone, models.RoleUser)
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true, "message": "User registered successfully", "data": s.authResult(u),
	})
}

func (s *Server) currentAccount(r *http.Request) *account {
	c, _ := claimsFrom(r.Context())
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[c.Subject]
}

func (s *Server) profile(w http.ResponseWriter, r *http.Request) {
	acc := s.currentAccount(r)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": acc.user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req models.ProfileForm
	if !decode(w, r, &req) {
		return
	}

	c, _ := claimsFrom(r.Context())
	s.mu.Lock()
	acc := s.accounts[c.Subject]
	if req.Name != "" {
		acc.user.Name = req.Name
	}
	if req.Phone != "" {
		acc.user.Phone = req.Phone
	}
	u := acc.user
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "user": u})
}

func (s *Server) changePassword(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordForm
	if !decode(w, r, &req) {
		return
	}

	acc := s.currentAccount(r)
	if bcrypt.CompareHashAndPassword(acc.hash, []byte(req.CurrentPassword)) != nil {
		writeError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.mu.Lock()
	acc.hash = hash
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Password updated successfully"})
}

func (s *Server) updateFCMToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FCMToken string `json:"fcmToken"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.FCMToken == "" {
		writeError(w, http.StatusBadRequest, "FCM token is required")
		return
	}

	c, _ := claimsFrom(r.Context())
	s.mu.Lock()
	s.accounts[c.Subject].fcmToken = req.FCMToken
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "FCM token updated"})
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": users})
}

func (s *Server) listPets(admin bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page, _ := strconv.Atoi(q.Get("page"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		query := models.PetQuery{Page: page, Limit: limit, Search: q.Get("search"), Species: q.Get("species")}.Normalized()
		search := strings.ToLower(query.Search)

		s.mu.Lock()
		matched := make([]models.Pet, 0, len(s.pets))
		for _, p := range s.pets {
			if !admin && p.Adopted {
				continue
			}
			if query.Species != "" && !strings.EqualFold(p.Species, query.Species) {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) &&
				!strings.Contains(strings.ToLower(p.Breed), search) {
				continue
			}
			matched = append(matched, p.Clone())
		}
		s.mu.Unlock()

		total := len(matched)
		from := min((query.Page-1)*query.Limit, total)
		to := min(from+query.Limit, total)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"pets":    matched[from:to],
			"pagination": models.Pagination{
				CurrentPage: query.Page,
				TotalPages:  (total + query.Limit - 1) / query.Limit,
				TotalPets:   total,
			},
		})
	}
}

func (s *Server) findPet(id string) int {
	for i, p := range s.pets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) getPet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	s.mu.Lock()
	i := s.findPet(id)
	var p models.Pet
	if i >= 0 {
		p = s.pets[i].Clone()
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": p})
}

func validPet(p models.Pet) bool {
	return strings.TrimSpace(p.Name) != "" && strings.TrimSpace(p.Breed) != ""
}

func (s *Server) createPet(w http.ResponseWriter, r *http.Request) {
	var p models.Pet
	if !decode(w, r, &p) {
		return
	}
	if !validPet(p) {
		writeError(w, http.StatusBadRequest, "Name and breed are required")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": s.AddPet(p)})
}

func (s *Server) updatePet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	var p models.Pet
	if !decode(w, r, &p) {
		return
	}
	if !validPet(p) {
		writeError(w, http.StatusBadRequest, "Name and breed are required")
		return
	}

	s.mu.Lock()
	i := s.findPet(id)
	if i >= 0 {
		p.ID = id
		if p.Traits == nil {
			p.Traits = []string{}
		}
		s.pets[i] = p
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": p})
}

func (s *Server) deletePet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "petID")

	s.mu.Lock()
	i := s.findPet(id)
	if i >= 0 {
		s.pets = append(s.pets[:i], s.pets[i+1:]...)
	}
	s.mu.Unlock()

	if i < 0 {
		writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Pet deleted successfully"})
}

// populate expands the pet and applicant references. Callers hold s.mu.
func (s *Server) populate(a models.Application) models.Application {
	if i := s.findPet(a.Pet.ID); i >= 0 {
		a.Pet.Name = s.pets[i].Name
	}
	if acc := s.accounts[a.Applicant.ID]; acc != nil {
		a.Applicant = models.Ref{ID: acc.user.ID, Name: acc.user.Name, Email: acc.user.Email, Phone: acc.user.Phone}
	}
	return a.Clone()
}

func (s *Server) applyAdoption(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PetID string `json:"petId"`
	}
	if !decode(w, r, &req) {
		return
	}
	c, _ := claimsFrom(r.Context())

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findPet(req.PetID)
	if i < 0 {
		writeError(w, http.StatusNotFound, "Pet not found")
		return
	}
	if s.pets[i].Adopted {
		writeError(w, http.StatusBadRequest, "Pet is already adopted")
		return
	}
	for _, a := range s.apps {
		if a.Pet.ID == req.PetID && a.Applicant.ID == c.Subject {
			writeError(w, http.StatusBadRequest, "You have already applied for this pet")
			return
		}
	}

	a := models.Application{
		ID:        uuid.NewString(),
		Pet:       models.Ref{ID: req.PetID},
		Applicant: models.Ref{ID: c.Subject},
		Status:    models.StatusPending,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	s.apps = append(s.apps, a)

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true, "message": "Application submitted", "data": s.populate(a),
	})
}

func (s *Server) listApplications(w http.ResponseWriter, r *http.Request) {
	c, _ := claimsFrom(r.Context())

	s.mu.Lock()
	out := make([]models.Application, 0, len(s.apps))
	for i := len(s.apps) - 1; i >= 0; i-- {
		a := s.apps[i]
		if c.Role != models.RoleAdmin && a.Applicant.ID != c.Subject {
			continue
		}
		out = append(out, s.populate(a))
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "appID")

	var req struct {
		Status models.ApplicationStatus `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !req.Status.IsDecision() {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, a := range s.apps {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "Application not found")
		return
	}
	if s.apps[idx].Status != models.StatusPending {
		writeError(w, http.StatusBadRequest, "Application has already been processed")
		return
	}

	now := s.now().UTC()
	a := &s.apps[idx]
	a.Status = req.Status
	a.UpdatedAt = now
	if req.Status == models.StatusApproved {
		a.ApprovedDate = &now
		if p := s.findPet(a.Pet.ID); p >= 0 {
			s.pets[p].Adopted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": s.populate(*a)})
}
