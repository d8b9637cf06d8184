package controllers

import (
	"net/http"
	"testing"

	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
)

func TestCreateUser(t *testing.T) {
	e := newEnv(t)
	e.r.POST("/users", CreateUser(e.cfg))

	w := e.request(t, http.MethodPost, "/users", "", map[string]string{
		"name":       "Ayesha",
		"email":      "Ayesha@Example.com",
		"bloodGroup": "B+",
		"role":       "admin",
	})
	wantStatus(t, w, http.StatusCreated)

	if len(e.mem.Users) != 1 {
		t.Fatalf("users = %d, want 1", len(e.mem.Users))
	}
	u := e.mem.Users[0]
	if u.Email != "ayesha@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.Role != models.RoleDonor || u.Status != models.UserActive {
		t.Errorf("role/status = %s/%s, want donor/active", u.Role, u.Status)
	}

	// same email again does not insert a duplicate
	w = e.request(t, http.MethodPost, "/users", "", map[string]string{"email": "ayesha@example.com"})
	wantStatus(t, w, http.StatusOK)
	body := decode[map[string]any](t, w)
	if body["insertedId"] != nil || body["message"] != "user already exists" {
		t.Fatalf("body = %v", body)
	}
	if len(e.mem.Users) != 1 {
		t.Fatalf("users = %d after duplicate, want 1", len(e.mem.Users))
	}
}

func TestCreateUserValidation(t *testing.T) {
	e := newEnv(t)
	e.r.POST("/users", CreateUser(e.cfg))

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing email", map[string]string{"name": "x"}},
		{"bad email", map[string]string{"email": "nope"}},
		{"bad blood group", map[string]string{"email": "a@x.com", "bloodGroup": "C+"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantStatus(t, e.request(t, http.MethodPost, "/users", "", tt.body), http.StatusBadRequest)
		})
	}
}

func TestGetCurrentUser(t *testing.T) {
	e := newEnv(t)
	e.addUser("a@x.com", models.RoleDonor, models.UserActive)
	e.r.GET("/currentUsers", middleware.VerifyToken(e.cfg), GetCurrentUser(e.cfg))

	t.Run("own email", func(t *testing.T) {
		w := e.request(t, http.MethodGet, "/currentUsers?email=a@x.com", "a@x.com", nil)
		wantStatus(t, w, http.StatusOK)
		if u := decode[models.User](t, w); u.Email != "a@x.com" {
			t.Fatalf("email = %q", u.Email)
		}
	})
	t.Run("someone else", func(t *testing.T) {
		w := e.request(t, http.MethodGet, "/currentUsers?email=a@x.com", "b@x.com", nil)
		wantStatus(t, w, http.StatusForbidden)
	})
	t.Run("not registered", func(t *testing.T) {
		w := e.request(t, http.MethodGet, "/currentUsers?email=c@x.com", "c@x.com", nil)
		wantStatus(t, w, http.StatusNotFound)
	})
	t.Run("no token", func(t *testing.T) {
		w := e.request(t, http.MethodGet, "/currentUsers?email=a@x.com", "", nil)
		wantStatus(t, w, http.StatusUnauthorized)
	})
}

func TestListUsersPaginates(t *testing.T) {
	e := newEnv(t)
	e.addUser("admin@x.com", models.RoleAdmin, models.UserActive)
	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com", "4@x.com"} {
		e.addUser(email, models.RoleDonor, models.UserActive)
	}
	e.addUser("blocked@x.com", models.RoleDonor, models.UserBlocked)
	e.r.GET("/users", middleware.VerifyToken(e.cfg), middleware.RequireAdmin(e.cfg), ListUsers(e.cfg))

	w := e.request(t, http.MethodGet, "/users?page=1&size=2", "admin@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	body := decode[struct {
		Result     []models.User `json:"result"`
		TotalCount int64         `json:"totalCount"`
	}](t, w)
	if body.TotalCount != 6 {
		t.Errorf("totalCount = %d, want 6", body.TotalCount)
	}
	// newest first: blocked, 4, | 3, 2 | 1, admin
	if len(body.Result) != 2 || body.Result[0].Email != "3@x.com" || body.Result[1].Email != "2@x.com" {
		t.Errorf("page 1 = %+v", body.Result)
	}

	w = e.request(t, http.MethodGet, "/users?status=blocked", "admin@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if got := decode[map[string]any](t, w)["totalCount"]; got != float64(1) {
		t.Errorf("blocked totalCount = %v, want 1", got)
	}

	wantStatus(t, e.request(t, http.MethodGet, "/users?status=asleep", "admin@x.com", nil), http.StatusBadRequest)
	wantStatus(t, e.request(t, http.MethodGet, "/users", "1@x.com", nil), http.StatusForbidden)
}

func TestUpdateUser(t *testing.T) {
	e := newEnv(t)
	e.addUser("a@x.com", models.RoleDonor, models.UserActive)
	e.r.PATCH("/users/:email", middleware.VerifyToken(e.cfg), UpdateUser(e.cfg))

	w := e.request(t, http.MethodPatch, "/users/a@x.com", "a@x.com", map[string]string{"district": "Khulna"})
	wantStatus(t, w, http.StatusOK)
	if e.mem.Users[0].District != "Khulna" {
		t.Errorf("district = %q, want Khulna", e.mem.Users[0].District)
	}

	wantStatus(t, e.request(t, http.MethodPatch, "/users/a@x.com", "a@x.com", map[string]string{}), http.StatusBadRequest)
	wantStatus(t, e.request(t, http.MethodPatch, "/users/a@x.com", "b@x.com", map[string]string{"name": "x"}), http.StatusForbidden)
}

func TestUpdateUserStatus(t *testing.T) {
	e := newEnv(t)
	admin := e.addUser("admin@x.com", models.RoleAdmin, models.UserActive)
	donor := e.addUser("d@x.com", models.RoleDonor, models.UserActive)
	e.r.PATCH("/users/updateStatus/:id", middleware.VerifyToken(e.cfg), middleware.RequireAdmin(e.cfg), UpdateUserStatus(e.cfg))

	w := e.request(t, http.MethodPatch, "/users/updateStatus/"+donor.ID.Hex(), "admin@x.com",
		map[string]string{"status": "blocked", "role": "volunteer"})
	wantStatus(t, w, http.StatusOK)
	if got := e.mem.Users[1]; got.Status != models.UserBlocked || got.Role != models.RoleVolunteer {
		t.Errorf("user = %s/%s, want blocked/volunteer", got.Status, got.Role)
	}

	tests := []struct {
		name string
		id   string
		body map[string]string
		want int
	}{
		{"bad status", donor.ID.Hex(), map[string]string{"status": "gone"}, http.StatusBadRequest},
		{"bad role", donor.ID.Hex(), map[string]string{"role": "owner"}, http.StatusBadRequest},
		{"empty", donor.ID.Hex(), map[string]string{}, http.StatusBadRequest},
		{"bad id", "zzz", map[string]string{"status": "active"}, http.StatusBadRequest},
		{"self", admin.ID.Hex(), map[string]string{"status": "blocked"}, http.StatusBadRequest},
		{"missing", "650000000000000000000000", map[string]string{"status": "active"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantStatus(t, e.request(t, http.MethodPatch, "/users/updateStatus/"+tt.id, "admin@x.com", tt.body), tt.want)
		})
	}
}

func TestStoreFailureIs500(t *testing.T) {
	e := newEnv(t)
	e.r.POST("/users", CreateUser(e.cfg))
	e.mem.Err = errBoom

	w := e.request(t, http.MethodPost, "/users", "", map[string]string{"email": "a@x.com"})
	wantStatus(t, w, http.StatusInternalServerError)
	if body := decode[map[string]any](t, w); body["error"] == nil {
		t.Fatalf("body = %v, want error field", body)
	}
}
