package editionscmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/internal/logging"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

type stubDocumentService struct {
	transitionRequests []documents.TransitionRequest
	scheduleRequests   []documents.ScheduleEditionRequest
	publishRequests    []documents.PublishEditionRequest
	publishDueSweeps   []time.Time
	transitionErr      error
}

func (s *stubDocumentService) CreateEdition(context.Context, documents.CreateEditionRequest) (*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) GetDocument(context.Context, uuid.UUID) (*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) GetDocumentByAlias(context.Context, string) (*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) GetDocumentByContentID(context.Context, uuid.UUID) (*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) ListDocuments(context.Context) ([]*documents.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) GetEdition(context.Context, uuid.UUID) (*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) ListEditions(context.Context, uuid.UUID) ([]*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) ApplyTransition(_ context.Context, req documents.TransitionRequest) (*documents.Edition, error) {
	s.transitionRequests = append(s.transitionRequests, req)
	if s.transitionErr != nil {
		return nil, s.transitionErr
	}
	return &documents.Edition{ID: req.EditionID}, nil
}

func (s *stubDocumentService) Schedule(_ context.Context, req documents.ScheduleEditionRequest) (*documents.Edition, error) {
	s.scheduleRequests = append(s.scheduleRequests, req)
	return &documents.Edition{ID: req.EditionID}, nil
}

func (s *stubDocumentService) Publish(_ context.Context, req documents.PublishEditionRequest) (*documents.Edition, error) {
	s.publishRequests = append(s.publishRequests, req)
	return &documents.Edition{ID: req.EditionID}, nil
}

func (s *stubDocumentService) PublishDue(_ context.Context, now time.Time) ([]*documents.Edition, error) {
	s.publishDueSweeps = append(s.publishDueSweeps, now)
	return nil, nil
}

func (s *stubDocumentService) MostRecentEdition(context.Context, uuid.UUID) (*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) LatestDraft(context.Context, uuid.UUID) (*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func (s *stubDocumentService) HasNewerDraft(context.Context, uuid.UUID) (bool, error) {
	return false, errors.New("not implemented")
}

func (s *stubDocumentService) LiveEdition(context.Context, uuid.UUID) (*documents.Edition, error) {
	return nil, errors.New("not implemented")
}

func TestTransitionEditionHandlerExecutesService(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewTransitionEditionHandler(service, logging.NoOp())

	editionID := uuid.New()
	actingUser := uuid.New()
	msg := TransitionEditionCommand{
		EditionID:  editionID,
		Transition: "ready_for_2i",
		ActingUser: &actingUser,
	}

	if err := handler.Execute(context.Background(), msg); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.transitionRequests) != 1 {
		t.Fatalf("expected one transition request, got %d", len(service.transitionRequests))
	}
	req := service.transitionRequests[0]
	if req.EditionID != editionID {
		t.Fatalf("expected edition id %s, got %s", editionID, req.EditionID)
	}
	if req.Transition != documents.TransitionReadyForReview {
		t.Fatalf("expected ready_for_review transition, got %s", req.Transition)
	}
	if req.ActingUser != actingUser {
		t.Fatalf("expected acting user %s, got %s", actingUser, req.ActingUser)
	}
}

func TestTransitionEditionHandlerUnknownName(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewTransitionEditionHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), TransitionEditionCommand{
		EditionID:  uuid.New(),
		Transition: "unpublish",
	})

	var unknown *documents.UnknownTransitionError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected UnknownTransitionError, got %v", err)
	}
	if len(service.transitionRequests) != 0 {
		t.Fatalf("expected no transition attempts, got %d", len(service.transitionRequests))
	}
}

func TestTransitionEditionHandlerValidationError(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewTransitionEditionHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), TransitionEditionCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.transitionRequests) != 0 {
		t.Fatalf("expected no transition attempts, got %d", len(service.transitionRequests))
	}
}

func TestScheduleEditionHandlerExecutesService(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewScheduleEditionHandler(service, logging.NoOp())

	editionID := uuid.New()
	publishAt := time.Now().Add(time.Hour).UTC()

	if err := handler.Execute(context.Background(), ScheduleEditionCommand{
		EditionID: editionID,
		PublishAt: publishAt,
	}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.scheduleRequests) != 1 {
		t.Fatalf("expected one schedule request, got %d", len(service.scheduleRequests))
	}
	if !service.scheduleRequests[0].PublishAt.Equal(publishAt) {
		t.Fatalf("expected publish at %v, got %v", publishAt, service.scheduleRequests[0].PublishAt)
	}
}

func TestPublishDueHandlerSweepsService(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewPublishDueHandler(service, logging.NoOp())

	now := time.Now().UTC()
	if err := handler.Execute(context.Background(), PublishDueCommand{Now: now}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(service.publishDueSweeps) != 1 {
		t.Fatalf("expected one sweep, got %d", len(service.publishDueSweeps))
	}
	if !service.publishDueSweeps[0].Equal(now) {
		t.Fatalf("expected sweep at %v, got %v", now, service.publishDueSweeps[0])
	}

	err := handler.Execute(context.Background(), PublishDueCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.publishDueSweeps) != 1 {
		t.Fatalf("expected no additional sweeps, got %d", len(service.publishDueSweeps))
	}
}

func TestPublishEditionHandlerValidationError(t *testing.T) {
	service := &stubDocumentService{}
	handler := NewPublishEditionHandler(service, logging.NoOp())

	err := handler.Execute(context.Background(), PublishEditionCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.publishRequests) != 0 {
		t.Fatalf("expected no publish attempts, got %d", len(service.publishRequests))
	}
}
