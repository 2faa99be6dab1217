package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	contentblocks "github.com/goliatone/go-content-blocks"
	"github.com/goliatone/go-content-blocks/documents"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	cfg := contentblocks.DefaultConfig()
	cfg.BaseURL = "http://localhost:8080"
	cfg.Logging.Format = "console"
	cfg.Storage = contentblocks.StorageConfig{
		Provider: "bun",
		Driver:   "sqlite3",
		DSN:      "file:contentblocks?mode=memory&cache=shared&_fk=1",
	}

	module, err := contentblocks.New(cfg)
	if err != nil {
		log.Fatalf("content blocks: %v", err)
	}

	registry := module.Schemas()
	if err := registry.Register("email_address", map[string]any{
		"type":     "object",
		"required": []any{"email_address"},
		"properties": map[string]any{
			"email_address": map[string]any{"type": "string"},
		},
	}); err != nil {
		log.Fatalf("register schema: %v", err)
	}

	editor := uuid.New()
	draft, err := module.Documents().CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Support Inbox",
		BlockType: "email_address",
		Details:   map[string]any{"email_address": "support@example.gov.uk"},
		CreatedBy: editor,
	})
	if err != nil {
		log.Fatalf("create edition: %v", err)
	}

	if _, err := module.Documents().Schedule(ctx, documents.ScheduleEditionRequest{
		EditionID:  draft.ID,
		PublishAt:  time.Now().Add(time.Second),
		ActingUser: editor,
	}); err != nil {
		log.Fatalf("schedule: %v", err)
	}

	time.Sleep(2 * time.Second)
	published, err := module.PublishDue(ctx)
	if err != nil {
		log.Fatalf("publish due: %v", err)
	}
	fmt.Printf("published %d edition(s)\n", len(published))

	resolved, err := module.Embeds().Resolve(ctx,
		"<p>Email identify-block:email_address:support-inbox/email_address for help.</p>", "en")
	if err != nil {
		log.Fatalf("resolve: %v", err)
	}
	fmt.Println(resolved)

	mux := http.NewServeMux()
	module.RegisterRoutes(mux)

	fmt.Println("listening on :8080")
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
