package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/domain"
	"github.com/google/uuid"
)

func TestParseTransition(t *testing.T) {
	cases := []struct {
		name string
		want documents.Transition
	}{
		{"ready_for_review", documents.TransitionReadyForReview},
		{"ready_for_2i", documents.TransitionReadyForReview},
		{"schedule", documents.TransitionSchedule},
		{"publish", documents.TransitionPublish},
		{"supersede", documents.TransitionSupersede},
	}

	for _, tc := range cases {
		got, err := documents.ParseTransition(tc.name)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("parse %q: expected %s got %s", tc.name, tc.want, got)
		}
	}
}

func TestParseTransitionUnknownName(t *testing.T) {
	_, err := documents.ParseTransition("unpublish")

	var unknown *documents.UnknownTransitionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTransitionError got %v", err)
	}
	if unknown.Name != "unpublish" {
		t.Fatalf("expected error to carry the name, got %q", unknown.Name)
	}
}

func TestTransitionReadyForReview(t *testing.T) {
	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)

	ctx := context.Background()
	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Passport Fee",
		BlockType: "pension",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}

	reviewed, err := svc.ApplyTransition(ctx, documents.TransitionRequest{
		EditionID:  edition.ID,
		Transition: documents.TransitionReadyForReview,
		ActingUser: uuid.New(),
	})
	if err != nil {
		t.Fatalf("apply transition: %v", err)
	}
	if reviewed.State != domain.StateAwaitingReview {
		t.Fatalf("expected awaiting_review got %s", reviewed.State)
	}
}

func TestTransitionReadyForReviewNotRepeatable(t *testing.T) {
	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)

	ctx := context.Background()
	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Passport Fee",
		BlockType: "pension",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}

	req := documents.TransitionRequest{
		EditionID:  edition.ID,
		Transition: documents.TransitionReadyForReview,
	}
	if _, err := svc.ApplyTransition(ctx, req); err != nil {
		t.Fatalf("first transition: %v", err)
	}

	_, err = svc.ApplyTransition(ctx, req)

	var invalid *documents.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError got %v", err)
	}
	if invalid.State != domain.StateAwaitingReview {
		t.Fatalf("expected error state awaiting_review got %s", invalid.State)
	}

	unchanged, err := svc.GetEdition(ctx, edition.ID)
	if err != nil {
		t.Fatalf("get edition: %v", err)
	}
	if unchanged.State != domain.StateAwaitingReview {
		t.Fatalf("failed transition must not move the state, got %s", unchanged.State)
	}
}

func TestTransitionScheduleFromAwaitingReview(t *testing.T) {
	docStore, editionStore := documents.NewMemoryRepositories()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := documents.NewService(docStore, editionStore, documents.WithClock(func() time.Time {
		return now
	}))

	ctx := context.Background()
	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Winter Fuel Payment",
		BlockType: "pension",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}

	if _, err := svc.ApplyTransition(ctx, documents.TransitionRequest{
		EditionID:  edition.ID,
		Transition: documents.TransitionReadyForReview,
	}); err != nil {
		t.Fatalf("ready for review: %v", err)
	}

	scheduled, err := svc.Schedule(ctx, documents.ScheduleEditionRequest{
		EditionID: edition.ID,
		PublishAt: now.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if scheduled.State != domain.StateScheduled {
		t.Fatalf("expected scheduled got %s", scheduled.State)
	}
}

func TestTransitionSupersedeRequiresPublished(t *testing.T) {
	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)

	ctx := context.Background()
	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Child Benefit Rate",
		BlockType: "pension",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}

	_, err = svc.ApplyTransition(ctx, documents.TransitionRequest{
		EditionID:  edition.ID,
		Transition: documents.TransitionSupersede,
	})

	var invalid *documents.InvalidTransitionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransitionError got %v", err)
	}
}
