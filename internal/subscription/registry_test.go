package subscription

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/ontap/internal/store"
)

func newTestRegistry() (*Registry, *store.MemorySlot) {
	slot := store.NewMemory()
	now := time.Date(2025, 5, 20, 8, 0, 0, 0, time.UTC)
	return New(slot, WithClock(func() time.Time { return now })), slot
}

func TestSubscribeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry()
	first, err := r.Subscribe(ctx, "parent@gmail.com", "child@gmail.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	second, err := r.Subscribe(ctx, "parent@gmail.com", "child@gmail.com")
	if err != nil {
		t.Fatalf("subscribe again: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical subscription, got %+v and %+v", first, second)
	}
	if got := len(r.List(ctx)); got != 1 {
		t.Fatalf("expected 1 subscription, got %d", got)
	}
}

func TestSubscribeFields(t *testing.T) {
	r, _ := newTestRegistry()
	s, err := r.Subscribe(context.Background(), "Parent.Name+x@GMAIL.com", "child@gmail.com")
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if !strings.HasPrefix(s.ID, "sub-") {
		t.Fatalf("expected sub- prefix, got %q", s.ID)
	}
	if len(s.Token) != tokenLength {
		t.Fatalf("expected token length %d, got %d", tokenLength, len(s.Token))
	}
	for _, c := range s.Token {
		if !strings.ContainsRune(tokenAlphabet, c) {
			t.Fatalf("unexpected token character %q", c)
		}
	}
	if !s.IsEnabled || s.CreatedAt == 0 {
		t.Fatalf("expected enabled subscription with timestamp, got %+v", s)
	}
}

func TestSubscribeRejectsInvalidEmail(t *testing.T) {
	cases := []struct {
		name   string
		parent string
		child  string
		field  string
	}{
		{name: "not an email", parent: "not-an-email", child: "child@gmail.com", field: "parentEmail"},
		{name: "child not gmail", parent: "parent@gmail.com", child: "child@yahoo.com", field: "childEmail"},
		{name: "empty", parent: "", child: "child@gmail.com", field: "parentEmail"},
		{name: "subdomain", parent: "parent@gmail.com.vn", child: "child@gmail.com", field: "parentEmail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			r, slot := newTestRegistry()
			_, err := r.Subscribe(ctx, tc.parent, tc.child)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field || verr.Error() != InvalidEmailMessage {
				t.Fatalf("unexpected validation error %+v", verr)
			}
			e, _ := slot.Get(ctx, Key)
			if e.Exists() {
				t.Fatalf("expected registry untouched")
			}
		})
	}
}

func TestRemoveAndOrder(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry()
	a, _ := r.Subscribe(ctx, "a@gmail.com", "child@gmail.com")
	b, _ := r.Subscribe(ctx, "b@gmail.com", "child@gmail.com")
	c, _ := r.Subscribe(ctx, "c@gmail.com", "child@gmail.com")

	list := r.List(ctx)
	if len(list) != 3 || list[0].ID != a.ID || list[1].ID != b.ID || list[2].ID != c.ID {
		t.Fatalf("expected insertion order, got %+v", list)
	}
	if err := r.Remove(ctx, b.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := r.Remove(ctx, "sub-missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	list = r.List(ctx)
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != c.ID {
		t.Fatalf("unexpected list after remove %+v", list)
	}
}

func TestFindByToken(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry()
	s, _ := r.Subscribe(ctx, "a@gmail.com", "child@gmail.com")
	got, err := r.FindByToken(ctx, s.Token)
	if err != nil || got.ID != s.ID {
		t.Fatalf("expected %s, got %+v err=%v", s.ID, got, err)
	}
	if _, err := r.FindByToken(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := r.FindByToken(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty token, got %v", err)
	}
}

func TestCorruptRegistryReadsEmpty(t *testing.T) {
	ctx := context.Background()
	r, slot := newTestRegistry()
	if _, err := slot.Put(ctx, Key, "[{", store.AnyVersion); err != nil {
		t.Fatalf("put: %v", err)
	}
	if got := r.List(ctx); got == nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %#v", got)
	}
	if _, err := r.Subscribe(ctx, "a@gmail.com", "child@gmail.com"); err != nil {
		t.Fatalf("subscribe over corrupt registry: %v", err)
	}
	if got := len(r.List(ctx)); got != 1 {
		t.Fatalf("expected 1 subscription, got %d", got)
	}
}

func TestIsGmail(t *testing.T) {
	if !IsGmail("x@gmail.com") || IsGmail("x@example.com") {
		t.Fatalf("unexpected IsGmail result")
	}
}
