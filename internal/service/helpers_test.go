package service

import (
	"context"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/testutil"
	"github.com/Skotchmaster/inventory/internal/tokens"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event Event
}

type fakePublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (f *fakePublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recordedEvent{Topic: topic, Key: key, Event: event.(Event)})
	return nil
}

func (f *fakePublisher) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Event.Type)
	}
	return out
}

type services struct {
	DB       *gorm.DB
	Auth     *AuthService
	Category *CategoryService
	Product  *ProductService
	Events   *fakePublisher
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.NewDB(t)
	r := repo.New(db)
	ev := &fakePublisher{}
	return &services{
		DB:       db,
		Auth:     &AuthService{Users: r, Tokens: r, Issuer: tokens.NewIssuer([]byte("test-secret"), 0), Events: ev},
		Category: &CategoryService{Repo: r, Events: ev},
		Product:  &ProductService{Repo: r, Categories: r, Events: ev},
		Events:   ev,
	}
}

func ptr[T any](v T) *T { return &v }
