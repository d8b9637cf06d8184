package controllers

import (
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
)

func TestRoot(t *testing.T) {
	e := newEnv(t)
	e.r.GET("/", Root)

	w := e.request(t, http.MethodGet, "/", "", nil)
	wantStatus(t, w, http.StatusOK)
	if w.Body.String() != "Blood Donation server is running" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestIssueToken(t *testing.T) {
	e := newEnv(t)
	e.r.POST("/jwt", IssueToken(e.cfg))

	w := e.request(t, http.MethodPost, "/jwt", "", map[string]string{"email": "A@X.com"})
	wantStatus(t, w, http.StatusOK)
	token := decode[map[string]string](t, w)["token"]
	claims, err := e.cfg.Tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email claim = %q", claims.Email)
	}

	wantStatus(t, e.request(t, http.MethodPost, "/jwt", "", map[string]string{}), http.StatusBadRequest)
}

func TestSearchDonors(t *testing.T) {
	e := newEnv(t)
	e.addUser("d1@x.com", models.RoleDonor, models.UserActive)
	e.addUser("d2@x.com", models.RoleDonor, models.UserBlocked)
	e.addUser("v@x.com", models.RoleVolunteer, models.UserActive)
	e.addUser("d3@x.com", models.RoleDonor, models.UserActive)
	e.mem.Users[3].BloodGroup = "A-"
	e.r.GET("/search", SearchDonors(e.cfg))

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"d1@x.com", "d3@x.com"}},
		{"?bloodGroup=O%2B&district=Dhaka", []string{"d1@x.com"}},
		{"?bloodGroup=A-", []string{"d3@x.com"}},
		{"?upazila=Nowhere", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := e.request(t, http.MethodGet, "/search"+tt.query, "", nil)
			wantStatus(t, w, http.StatusOK)
			got := decode[[]models.User](t, w)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d donors, want %d", len(got), len(tt.want))
			}
			for i, u := range got {
				if u.Email != tt.want[i] {
					t.Errorf("donor[%d] = %q, want %q", i, u.Email, tt.want[i])
				}
			}
		})
	}

	wantStatus(t, e.request(t, http.MethodGet, "/search?bloodGroup=Q", "", nil), http.StatusBadRequest)
}

func TestLocations(t *testing.T) {
	e := newEnv(t)
	e.mem.Districts = []models.District{{ID: primitive.NewObjectID(), Code: "1", Name: "Dhaka"}}
	e.mem.Upazilas = []models.Upazila{
		{ID: primitive.NewObjectID(), Code: "10", DistrictID: "1", Name: "Savar"},
		{ID: primitive.NewObjectID(), Code: "20", DistrictID: "2", Name: "Rupsha"},
	}
	e.r.GET("/districts", ListDistricts(e.cfg))
	e.r.GET("/upazilas", ListUpazilas(e.cfg))

	w := e.request(t, http.MethodGet, "/districts", "", nil)
	wantStatus(t, w, http.StatusOK)
	if n := len(decode[[]models.District](t, w)); n != 1 {
		t.Errorf("districts = %d", n)
	}

	w = e.request(t, http.MethodGet, "/upazilas?district_id=1", "", nil)
	wantStatus(t, w, http.StatusOK)
	if got := decode[[]models.Upazila](t, w); len(got) != 1 || got[0].Name != "Savar" {
		t.Errorf("upazilas = %+v", got)
	}
}

func TestStats(t *testing.T) {
	e := newEnv(t)
	e.addUser("admin@x.com", models.RoleAdmin, models.UserActive)
	e.addUser("d@x.com", models.RoleDonor, models.UserActive)
	e.addRequest("d@x.com", models.StatusPending)
	verify, staff := middleware.VerifyToken(e.cfg), middleware.RequireAdminOrVolunteer(e.cfg)
	e.r.GET("/total-users", verify, staff, TotalUsers(e.cfg))
	e.r.GET("/total-donation-req", verify, staff, TotalDonationRequests(e.cfg))

	w := e.request(t, http.MethodGet, "/total-users", "admin@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if n := decode[map[string]int64](t, w)["count"]; n != 2 {
		t.Errorf("users = %d, want 2", n)
	}
	w = e.request(t, http.MethodGet, "/total-donation-req", "admin@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if n := decode[map[string]int64](t, w)["count"]; n != 1 {
		t.Errorf("requests = %d, want 1", n)
	}
	wantStatus(t, e.request(t, http.MethodGet, "/total-users", "d@x.com", nil), http.StatusForbidden)
}
