// Package storetest provides an in-memory store.Store for handler tests.
package storetest

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/lifeline/blood-donation-go/models"
	store "github.com/lifeline/blood-donation-go/store"
)

// Memory keeps documents in insertion order. Setting Err makes every
// operation fail with it.
type Memory struct {
	mu sync.Mutex

	Users     []models.User
	Requests  []models.DonationRequest
	Posts     []models.BlogPost
	Payments  []models.Payment
	Districts []models.District
	Upazilas  []models.Upazila

	// Reads counts FindByEmail calls on users.
	Reads int
	Err   error
}

func New() (*Memory, *store.Store) {
	m := &Memory{}
	return m, &store.Store{
		Users:     memUsers{m},
		Requests:  memRequests{m},
		Posts:     memPosts{m},
		Payments:  memPayments{m},
		Locations: memLocations{m},
	}
}

// applySet merges a $set document into doc through a bson round trip.
func applySet[T any](doc *T, set bson.M) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return err
	}
	for k, v := range set {
		m[k] = v
	}
	raw, err = bson.Marshal(m)
	if err != nil {
		return err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return err
	}
	*doc = out
	return nil
}

// newestFirst returns matching documents in reverse insertion order.
func newestFirst[T any](docs []T, match func(*T) bool) []T {
	out := []T{}
	for i := len(docs) - 1; i >= 0; i-- {
		if match(&docs[i]) {
			out = append(out, docs[i])
		}
	}
	return out
}

func page[T any](docs []T, p store.Page) *store.Paged[T] {
	res := &store.Paged[T]{Items: []T{}, Total: int64(len(docs))}
	start := p.Skip()
	if start >= int64(len(docs)) {
		return res
	}
	end := start + p.Size
	if end > int64(len(docs)) {
		end = int64(len(docs))
	}
	res.Items = append(res.Items, docs[start:end]...)
	return res
}

type memUsers struct{ m *Memory }

func (s memUsers) Insert(_ context.Context, u *models.User) (*mongo.InsertOneResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.m.Users = append(s.m.Users, *u)
	return &mongo.InsertOneResult{InsertedID: u.ID}, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	s.m.Reads++
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Users {
		if s.m.Users[i].Email == email {
			u := s.m.Users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memUsers) List(_ context.Context, f store.UserFilter, p store.Page) (*store.Paged[models.User], error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	docs := newestFirst(s.m.Users, func(u *models.User) bool {
		return f.Status == "" || u.Status == f.Status
	})
	return page(docs, p), nil
}

func (s memUsers) update(match func(*models.User) bool, set bson.M) (*mongo.UpdateResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Users {
		if match(&s.m.Users[i]) {
			if err := applySet(&s.m.Users[i], set); err != nil {
				return nil, err
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (s memUsers) UpdateByEmail(_ context.Context, email string, set bson.M) (*mongo.UpdateResult, error) {
	return s.update(func(u *models.User) bool { return u.Email == email }, set)
}

func (s memUsers) UpdateByID(_ context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return s.update(func(u *models.User) bool { return u.ID == id }, set)
}

func (s memUsers) SearchDonors(_ context.Context, q store.DonorQuery) ([]models.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	out := []models.User{}
	for _, u := range s.m.Users {
		if u.Role != models.RoleDonor || u.Status == models.UserBlocked {
			continue
		}
		if (q.BloodGroup == "" || u.BloodGroup == q.BloodGroup) &&
			(q.District == "" || u.District == q.District) &&
			(q.Upazila == "" || u.Upazila == q.Upazila) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s memUsers) Count(context.Context) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return 0, s.m.Err
	}
	return int64(len(s.m.Users)), nil
}

type memRequests struct{ m *Memory }

func matchRequest(f store.RequestFilter) func(*models.DonationRequest) bool {
	return func(r *models.DonationRequest) bool {
		return (f.RequesterEmail == "" || r.RequesterEmail == f.RequesterEmail) &&
			(f.Status == "" || r.Status == f.Status)
	}
}

func (s memRequests) Insert(_ context.Context, r *models.DonationRequest) (*mongo.InsertOneResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	if r.ID.IsZero() {
		r.ID = primitive.NewObjectID()
	}
	s.m.Requests = append(s.m.Requests, *r)
	return &mongo.InsertOneResult{InsertedID: r.ID}, nil
}

func (s memRequests) FindByID(_ context.Context, id primitive.ObjectID) (*models.DonationRequest, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Requests {
		if s.m.Requests[i].ID == id {
			r := s.m.Requests[i]
			return &r, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memRequests) List(_ context.Context, f store.RequestFilter, p store.Page) (*store.Paged[models.DonationRequest], error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	return page(newestFirst(s.m.Requests, matchRequest(f)), p), nil
}

func (s memRequests) update(match func(*models.DonationRequest) bool, set bson.M) (*mongo.UpdateResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Requests {
		if match(&s.m.Requests[i]) {
			if err := applySet(&s.m.Requests[i], set); err != nil {
				return nil, err
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (s memRequests) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return s.update(func(r *models.DonationRequest) bool { return r.ID == id }, set)
}

func (s memRequests) UpdateStatus(_ context.Context, id primitive.ObjectID, from models.DonationStatus, set bson.M) (*mongo.UpdateResult, error) {
	return s.update(func(r *models.DonationRequest) bool { return r.ID == id && r.Status == from }, set)
}

func (s memRequests) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Requests {
		if s.m.Requests[i].ID == id {
			s.m.Requests = append(s.m.Requests[:i], s.m.Requests[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

func (s memRequests) Count(_ context.Context, f store.RequestFilter) (int64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return 0, s.m.Err
	}
	return int64(len(newestFirst(s.m.Requests, matchRequest(f)))), nil
}

type memPosts struct{ m *Memory }

func (s memPosts) Insert(_ context.Context, p *models.BlogPost) (*mongo.InsertOneResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.m.Posts = append(s.m.Posts, *p)
	return &mongo.InsertOneResult{InsertedID: p.ID}, nil
}

func (s memPosts) FindByID(_ context.Context, id primitive.ObjectID) (*models.BlogPost, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Posts {
		if s.m.Posts[i].ID == id {
			p := s.m.Posts[i]
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s memPosts) List(_ context.Context, status models.PostStatus) ([]models.BlogPost, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	return newestFirst(s.m.Posts, func(p *models.BlogPost) bool {
		return status == "" || p.Status == status
	}), nil
}

func (s memPosts) Update(_ context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Posts {
		if s.m.Posts[i].ID == id {
			if err := applySet(&s.m.Posts[i], set); err != nil {
				return nil, err
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (s memPosts) Delete(_ context.Context, id primitive.ObjectID) (*mongo.DeleteResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	for i := range s.m.Posts {
		if s.m.Posts[i].ID == id {
			s.m.Posts = append(s.m.Posts[:i], s.m.Posts[i+1:]...)
			return &mongo.DeleteResult{DeletedCount: 1}, nil
		}
	}
	return &mongo.DeleteResult{}, nil
}

type memPayments struct{ m *Memory }

func (s memPayments) Insert(_ context.Context, p *models.Payment) (*mongo.InsertOneResult, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.m.Payments = append(s.m.Payments, *p)
	return &mongo.InsertOneResult{InsertedID: p.ID}, nil
}

func (s memPayments) List(_ context.Context, p store.Page) (*store.Paged[models.Payment], error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	return page(newestFirst(s.m.Payments, func(*models.Payment) bool { return true }), p), nil
}

func (s memPayments) Total(context.Context) (float64, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return 0, s.m.Err
	}
	var total float64
	for _, p := range s.m.Payments {
		total += p.Amount
	}
	return total, nil
}

type memLocations struct{ m *Memory }

func (s memLocations) Districts(context.Context) ([]models.District, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	return append([]models.District{}, s.m.Districts...), nil
}

func (s memLocations) Upazilas(_ context.Context, districtID string) ([]models.Upazila, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if s.m.Err != nil {
		return nil, s.m.Err
	}
	out := []models.Upazila{}
	for _, u := range s.m.Upazilas {
		if districtID == "" || u.DistrictID == districtID {
			out = append(out, u)
		}
	}
	return out, nil
}
