package controllers

import (
	"net/http"
	"strings"
	"testing"

	middleware "github.com/lifeline/blood-donation-go/middleware"
	models "github.com/lifeline/blood-donation-go/models"
)

func validRequestBody() map[string]string {
	return map[string]string{
		"recipientName": "Karim",
		"district":      "Dhaka",
		"upazila":       "Savar",
		"hospitalName":  "Enam Medical",
		"fullAddress":   "Ward 4",
		"bloodGroup":    "AB-",
		"donationDate":  "2026-11-02",
		"donationTime":  "09:15",
	}
}

func TestCreateDonationRequest(t *testing.T) {
	e := newEnv(t)
	e.addUser("req@x.com", models.RoleDonor, models.UserActive)
	e.addUser("blocked@x.com", models.RoleDonor, models.UserBlocked)
	e.r.POST("/create-donation-request", middleware.VerifyToken(e.cfg), CreateDonationRequest(e.cfg))

	w := e.request(t, http.MethodPost, "/create-donation-request", "req@x.com", validRequestBody())
	wantStatus(t, w, http.StatusCreated)

	if len(e.mem.Requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(e.mem.Requests))
	}
	got := e.mem.Requests[0]
	if got.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", got.Status)
	}
	if got.RequesterEmail != "req@x.com" || got.RequesterName != "req@x.com" {
		t.Errorf("requester = %q/%q", got.RequesterName, got.RequesterEmail)
	}

	t.Run("blocked", func(t *testing.T) {
		w := e.request(t, http.MethodPost, "/create-donation-request", "blocked@x.com", validRequestBody())
		wantStatus(t, w, http.StatusForbidden)
	})
	t.Run("unregistered", func(t *testing.T) {
		w := e.request(t, http.MethodPost, "/create-donation-request", "ghost@x.com", validRequestBody())
		wantStatus(t, w, http.StatusForbidden)
	})
	t.Run("invalid date", func(t *testing.T) {
		body := validRequestBody()
		body["donationDate"] = "02/11/2026"
		wantStatus(t, e.request(t, http.MethodPost, "/create-donation-request", "req@x.com", body), http.StatusBadRequest)
	})
	t.Run("invalid blood group", func(t *testing.T) {
		body := validRequestBody()
		body["bloodGroup"] = "Z"
		wantStatus(t, e.request(t, http.MethodPost, "/create-donation-request", "req@x.com", body), http.StatusBadRequest)
	})
	if len(e.mem.Requests) != 1 {
		t.Fatalf("requests = %d after rejected creates, want 1", len(e.mem.Requests))
	}
}

type requestPage struct {
	Result     []models.DonationRequest `json:"result"`
	TotalCount int64                    `json:"totalCount"`
}

func TestListMyDonationRequests(t *testing.T) {
	e := newEnv(t)
	var mine []models.DonationRequest
	for i := 0; i < 5; i++ {
		mine = append(mine, e.addRequest("me@x.com", models.StatusPending))
	}
	e.addRequest("other@x.com", models.StatusPending)
	e.r.GET("/my-donation-request", middleware.VerifyToken(e.cfg), ListMyDonationRequests(e.cfg))

	w := e.request(t, http.MethodGet, "/my-donation-request?page=1&size=2", "me@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	page := decode[requestPage](t, w)
	if page.TotalCount != 5 {
		t.Errorf("totalCount = %d, want 5", page.TotalCount)
	}
	if len(page.Result) != 2 || page.Result[0].ID != mine[2].ID || page.Result[1].ID != mine[1].ID {
		t.Errorf("page 1 ids = %v", page.Result)
	}

	w = e.request(t, http.MethodGet, "/my-donation-request?page=3&size=2", "me@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if page := decode[requestPage](t, w); len(page.Result) != 0 || page.TotalCount != 5 {
		t.Errorf("past the end: %d items, total %d", len(page.Result), page.TotalCount)
	}

	wantStatus(t, e.request(t, http.MethodGet, "/my-donation-request?email=other@x.com", "me@x.com", nil), http.StatusForbidden)
	wantStatus(t, e.request(t, http.MethodGet, "/my-donation-request?status=lost", "me@x.com", nil), http.StatusBadRequest)
}

func TestListPublicDonationRequestsShowsPendingOnly(t *testing.T) {
	e := newEnv(t)
	e.addRequest("a@x.com", models.StatusPending)
	e.addRequest("a@x.com", models.StatusInProgress)
	e.addRequest("a@x.com", models.StatusDone)
	e.r.GET("/all-donation-request-public", ListPublicDonationRequests(e.cfg))

	w := e.request(t, http.MethodGet, "/all-donation-request-public", "", nil)
	wantStatus(t, w, http.StatusOK)
	page := decode[requestPage](t, w)
	if page.TotalCount != 1 || len(page.Result) != 1 || page.Result[0].Status != models.StatusPending {
		t.Fatalf("page = %+v", page)
	}
}

func TestGetDonationRequestETag(t *testing.T) {
	e := newEnv(t)
	req := e.addRequest("a@x.com", models.StatusPending)
	e.r.GET("/my-donation-request/:id", middleware.VerifyToken(e.cfg), GetDonationRequest(e.cfg))

	w := e.request(t, http.MethodGet, "/my-donation-request/"+req.ID.Hex(), "a@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag header")
	}

	hreq := e.newRequest(t, http.MethodGet, "/my-donation-request/"+req.ID.Hex(), "a@x.com", nil)
	hreq.Header.Set("If-None-Match", etag)
	w = e.serve(hreq)
	wantStatus(t, w, http.StatusNotModified)

	wantStatus(t, e.request(t, http.MethodGet, "/my-donation-request/nothex", "a@x.com", nil), http.StatusBadRequest)
	wantStatus(t, e.request(t, http.MethodGet, "/my-donation-request/650000000000000000000000", "a@x.com", nil), http.StatusNotFound)
}

func TestDonationStatusTransitions(t *testing.T) {
	e := newEnv(t)
	e.addUser("vol@x.com", models.RoleVolunteer, models.UserActive)
	e.r.PATCH("/donation-request/updateStatus/:id",
		middleware.VerifyToken(e.cfg), middleware.RequireAdminOrVolunteer(e.cfg), UpdateDonationStatus(e.cfg))

	tests := []struct {
		name string
		from models.DonationStatus
		to   string
		want int
	}{
		{"pending to inprogress", models.StatusPending, "inprogress", http.StatusOK},
		{"pending to canceled", models.StatusPending, "canceled", http.StatusOK},
		{"inprogress to done", models.StatusInProgress, "done", http.StatusOK},
		{"inprogress back to pending", models.StatusInProgress, "pending", http.StatusOK},
		{"same status is a no-op", models.StatusDone, "done", http.StatusOK},
		{"legacy empty to inprogress", "", "inprogress", http.StatusOK},
		{"pending to done", models.StatusPending, "done", http.StatusConflict},
		{"done to pending", models.StatusDone, "pending", http.StatusConflict},
		{"canceled to inprogress", models.StatusCanceled, "inprogress", http.StatusConflict},
		{"unknown status", models.StatusPending, "finished", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := e.addRequest("a@x.com", tt.from)
			w := e.request(t, http.MethodPatch, "/donation-request/updateStatus/"+req.ID.Hex(), "vol@x.com",
				map[string]string{"status": tt.to})
			wantStatus(t, w, tt.want)

			stored := e.mem.Requests[len(e.mem.Requests)-1]
			if tt.want == http.StatusOK && string(stored.Status) != tt.to {
				t.Errorf("stored status = %q, want %q", stored.Status, tt.to)
			}
			if tt.want != http.StatusOK && stored.Status != tt.from {
				t.Errorf("stored status changed to %q on rejection", stored.Status)
			}
		})
	}
}

func TestUpdateDonationStatusRequiresStaff(t *testing.T) {
	e := newEnv(t)
	e.addUser("d@x.com", models.RoleDonor, models.UserActive)
	req := e.addRequest("a@x.com", models.StatusPending)
	e.r.PATCH("/donation-request/updateStatus/:id",
		middleware.VerifyToken(e.cfg), middleware.RequireAdminOrVolunteer(e.cfg), UpdateDonationStatus(e.cfg))

	w := e.request(t, http.MethodPatch, "/donation-request/updateStatus/"+req.ID.Hex(), "d@x.com",
		map[string]string{"status": "canceled"})
	wantStatus(t, w, http.StatusForbidden)
}

func TestOwnerEndpoints(t *testing.T) {
	e := newEnv(t)
	req := e.addRequest("owner@x.com", models.StatusPending)
	verify := middleware.VerifyToken(e.cfg)
	e.r.PATCH("/update-donation-request/:id", verify, UpdateDonationRequest(e.cfg))
	e.r.PATCH("/my-donation-request/updateStatus/:id", verify, UpdateMyDonationStatus(e.cfg))
	e.r.DELETE("/my-donation-request/:id", verify, DeleteDonationRequest(e.cfg))
	id := req.ID.Hex()

	wantStatus(t, e.request(t, http.MethodPatch, "/update-donation-request/"+id, "other@x.com",
		map[string]string{"hospitalName": "Square"}), http.StatusForbidden)
	wantStatus(t, e.request(t, http.MethodPatch, "/my-donation-request/updateStatus/"+id, "other@x.com",
		map[string]string{"status": "canceled"}), http.StatusForbidden)
	wantStatus(t, e.request(t, http.MethodDelete, "/my-donation-request/"+id, "other@x.com", nil), http.StatusForbidden)

	w := e.request(t, http.MethodPatch, "/update-donation-request/"+id, "owner@x.com",
		map[string]string{"hospitalName": "Square"})
	wantStatus(t, w, http.StatusOK)
	if e.mem.Requests[0].HospitalName != "Square" {
		t.Errorf("hospitalName = %q", e.mem.Requests[0].HospitalName)
	}

	// a status in the generic update still goes through the transition table
	wantStatus(t, e.request(t, http.MethodPatch, "/update-donation-request/"+id, "owner@x.com",
		map[string]string{"status": "done"}), http.StatusConflict)

	wantStatus(t, e.request(t, http.MethodPatch, "/my-donation-request/updateStatus/"+id, "owner@x.com",
		map[string]string{"status": "canceled"}), http.StatusOK)

	w = e.request(t, http.MethodDelete, "/my-donation-request/"+id, "owner@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if len(e.mem.Requests) != 0 {
		t.Fatalf("requests = %d after delete", len(e.mem.Requests))
	}
	wantStatus(t, e.request(t, http.MethodDelete, "/my-donation-request/"+id, "owner@x.com", nil), http.StatusNotFound)
}

func TestClaimDonationRequest(t *testing.T) {
	e := newEnv(t)
	mailer := &fakeMailer{}
	e.cfg.Mailer = mailer
	req := e.addRequest("req@x.com", models.StatusPending)
	e.r.PATCH("/update-donation-request-done/:id", middleware.VerifyToken(e.cfg), ClaimDonationRequest(e.cfg))
	path := "/update-donation-request-done/" + req.ID.Hex()

	wantStatus(t, e.request(t, http.MethodPatch, path, "req@x.com", nil), http.StatusBadRequest)

	w := e.request(t, http.MethodPatch, path, "donor@x.com", map[string]string{"donorName": "Nadia"})
	wantStatus(t, w, http.StatusOK)

	got := e.mem.Requests[0]
	if got.Status != models.StatusInProgress || got.DonorEmail != "donor@x.com" || got.DonorName != "Nadia" {
		t.Errorf("request = %s %q %q", got.Status, got.DonorName, got.DonorEmail)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("mails sent = %d, want 1", len(mailer.sent))
	}
	if m := mailer.sent[0]; m.to != "req@x.com" || !strings.Contains(m.body, "Nadia") {
		t.Errorf("mail = %+v", m)
	}

	// second donor loses
	wantStatus(t, e.request(t, http.MethodPatch, path, "late@x.com", nil), http.StatusConflict)
	if len(mailer.sent) != 1 {
		t.Errorf("mails sent = %d after rejected claim, want 1", len(mailer.sent))
	}
}

func TestClaimSucceedsWhenMailFails(t *testing.T) {
	e := newEnv(t)
	e.cfg.Mailer = &fakeMailer{err: errBoom}
	req := e.addRequest("req@x.com", models.StatusPending)
	e.r.PATCH("/update-donation-request-done/:id", middleware.VerifyToken(e.cfg), ClaimDonationRequest(e.cfg))

	w := e.request(t, http.MethodPatch, "/update-donation-request-done/"+req.ID.Hex(), "donor@x.com", nil)
	wantStatus(t, w, http.StatusOK)
	if e.mem.Requests[0].DonorName != "donor@x.com" {
		t.Errorf("donorName = %q, want email fallback", e.mem.Requests[0].DonorName)
	}
}
