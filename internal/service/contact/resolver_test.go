package contact

import (
	"context"
	"errors"
	"strings"
	"testing"

	"prospekt/internal/domain"
	"prospekt/internal/domain/models"
	"prospekt/internal/domain/services"
	"prospekt/internal/httputil"
)

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, path string, data []byte) (string, error) {
	s.files[path] = data
	return path, nil
}

func (s *memStore) Load(_ context.Context, path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *memStore) Resolve(path string) (string, error) { return "/store/" + path, nil }

func present(value string) httputil.OptionalString {
	return httputil.OptionalString{Present: true, Value: &value}
}

func TestApplyMergesOnlyPresentFields(t *testing.T) {
	resolver := NewResolver(newMemStore())
	schema := &models.Schema{Contact: models.Contact{
		Email: "old@azurepalms.example",
		Phone: "+30 1234 5678",
	}}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Email: present("new@azurepalms.example"),
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !changed {
		t.Error("changed = false for a real update")
	}
	if schema.Contact.Email != "new@azurepalms.example" {
		t.Errorf("email = %q", schema.Contact.Email)
	}
	if schema.Contact.Phone != "+30 1234 5678" {
		t.Errorf("absent phone field was touched: %q", schema.Contact.Phone)
	}
}

func TestApplyExplicitClear(t *testing.T) {
	resolver := NewResolver(newMemStore())
	schema := &models.Schema{Contact: models.Contact{Phone: "+30 1234 5678"}}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Phone: present(""),
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !changed {
		t.Error("changed = false when clearing a field")
	}
	if schema.Contact.Phone != "" {
		t.Errorf("phone = %q, want cleared", schema.Contact.Phone)
	}
}

func TestApplyExplicitNullClears(t *testing.T) {
	resolver := NewResolver(newMemStore())
	schema := &models.Schema{Contact: models.Contact{
		Phone: "+30 1234 5678",
		Email: "a@b.example",
	}}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Phone: httputil.OptionalString{Present: true},
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !changed {
		t.Error("changed = false when nulling a field")
	}
	if schema.Contact.Phone != "" {
		t.Errorf("phone = %q, want cleared", schema.Contact.Phone)
	}
	if schema.Contact.Email != "a@b.example" {
		t.Errorf("null phone touched email: %q", schema.Contact.Email)
	}
}

func TestApplyNoopReportsUnchanged(t *testing.T) {
	resolver := NewResolver(newMemStore())
	schema := &models.Schema{Contact: models.Contact{Email: "a@b.example"}}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Email: present("a@b.example"),
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if changed {
		t.Error("changed = true for an identical value")
	}
}

func TestApplyWebsiteGeneratesQR(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store)
	schema := &models.Schema{}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Website: present("https://azurepalms.example"),
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !changed {
		t.Error("changed = false")
	}
	if schema.Contact.QRCode == "" {
		t.Fatal("qr code path not set")
	}
	if data := store.files[schema.Contact.QRCode]; len(data) == 0 {
		t.Error("qr code bytes not stored")
	}
}

func TestApplyClearingWebsiteClearsQR(t *testing.T) {
	store := newMemStore()
	resolver := NewResolver(store)
	schema := &models.Schema{}

	if _, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Website: present("https://azurepalms.example"),
	}); err != nil {
		t.Fatalf("set website: %v", err)
	}

	changed, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Website: present(""),
	})
	if err != nil {
		t.Fatalf("clear website: %v", err)
	}
	if !changed {
		t.Error("changed = false when clearing the website")
	}
	if schema.Contact.QRCode != "" {
		t.Errorf("qr code = %q, want cleared", schema.Contact.QRCode)
	}
}

func TestApplyRejectsOverlongField(t *testing.T) {
	resolver := NewResolver(newMemStore())
	schema := &models.Schema{Contact: models.Contact{Email: "keep@azurepalms.example"}}

	_, err := resolver.Apply(context.Background(), "b1", schema, &services.ContactUpdate{
		Email: present(strings.Repeat("x", 300)),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
	if schema.Contact.Email != "keep@azurepalms.example" {
		t.Error("rejected update mutated the contact section")
	}
}
