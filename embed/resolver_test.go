package embed_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-content-blocks/documents"
	"github.com/goliatone/go-content-blocks/embed"
	"github.com/goliatone/go-content-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

func newFixture(t *testing.T) (documents.Service, *embed.Resolver) {
	t.Helper()
	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)
	return svc, embed.NewResolver(svc)
}

func publish(t *testing.T, svc documents.Service, editionID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	if _, err := svc.Schedule(ctx, documents.ScheduleEditionRequest{
		EditionID: editionID,
		PublishAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if _, err := svc.Publish(ctx, documents.PublishEditionRequest{EditionID: editionID}); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestFindParsesPlaceholders(t *testing.T) {
	content := `<p>Call identify-block:contact:hmrc-helpline today or email
identify-block:email_address:support-inbox/email_address for help.</p>`

	refs := embed.Find(content)
	if len(refs) != 2 {
		t.Fatalf("expected 2 references got %d", len(refs))
	}

	if refs[0].BlockType != "contact" || refs[0].Alias != "hmrc-helpline" {
		t.Fatalf("unexpected first reference %+v", refs[0])
	}
	if refs[0].HasFieldPath() {
		t.Fatalf("first reference should address the whole block, got %v", refs[0].FieldPath)
	}

	if refs[1].Alias != "support-inbox" {
		t.Fatalf("unexpected second alias %q", refs[1].Alias)
	}
	if len(refs[1].FieldPath) != 1 || refs[1].FieldPath[0] != "email_address" {
		t.Fatalf("unexpected field path %v", refs[1].FieldPath)
	}
}

func TestParseRejectsPartialMatches(t *testing.T) {
	if _, ok := embed.Parse("identify-block:contact:hmrc-helpline extra"); ok {
		t.Fatal("trailing text must not parse as an embed code")
	}
	if _, ok := embed.Parse("not-a-code"); ok {
		t.Fatal("arbitrary text must not parse as an embed code")
	}
}

func TestResolveSubstitutesLiveEdition(t *testing.T) {
	svc, resolver := newFixture(t)
	ctx := context.Background()

	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "HMRC Helpline",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	publish(t, svc, edition.ID)

	doc, err := svc.GetDocument(ctx, edition.DocumentID)
	if err != nil {
		t.Fatalf("get document: %v", err)
	}

	content := "<p>Call identify-block:contact:hmrc-helpline now.</p>"
	resolved, err := resolver.Resolve(ctx, content, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if strings.Contains(resolved, "identify-block:contact:hmrc-helpline now") {
		t.Fatalf("placeholder left in output: %s", resolved)
	}
	if !strings.Contains(resolved, `data-content-id="`+doc.ContentID.String()+`"`) {
		t.Fatalf("expected content id attribute in output: %s", resolved)
	}
	if !strings.Contains(resolved, ">HMRC Helpline</span>") {
		t.Fatalf("expected rendered title in output: %s", resolved)
	}
	if !strings.Contains(resolved, `class="content-embed content-embed__content_block_contact"`) {
		t.Fatalf("expected block type modifier class in output: %s", resolved)
	}
	if !strings.Contains(resolved, `data-document-type="content_block_contact"`) {
		t.Fatalf("expected document type attribute in output: %s", resolved)
	}
}

func TestResolveFieldScopedPlaceholder(t *testing.T) {
	svc, resolver := newFixture(t)
	ctx := context.Background()

	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Support Inbox",
		BlockType: "email_address",
		Details: map[string]any{
			"email_address": "support@example.gov.uk",
		},
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	publish(t, svc, edition.ID)

	resolved, err := resolver.Resolve(ctx, "identify-block:email_address:support-inbox/email_address", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !strings.Contains(resolved, ">support@example.gov.uk</span>") {
		t.Fatalf("expected field value in output: %s", resolved)
	}
}

func TestResolveLeavesUnknownAliasUntouched(t *testing.T) {
	_, resolver := newFixture(t)

	content := "<p>identify-block:contact:nobody-home stays as is.</p>"
	resolved, err := resolver.Resolve(context.Background(), content, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved != content {
		t.Fatalf("expected byte-identical passthrough, got %s", resolved)
	}
}

func TestResolveNeverSubstitutesDraftOnlyDocument(t *testing.T) {
	svc, resolver := newFixture(t)
	ctx := context.Background()

	if _, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Draft Helpline",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	}); err != nil {
		t.Fatalf("create edition: %v", err)
	}

	content := "<p>identify-block:contact:draft-helpline</p>"
	resolved, err := resolver.Resolve(ctx, content, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if resolved != content {
		t.Fatalf("draft-only block must stay unresolved, got %s", resolved)
	}
}

func TestResolveMultipleOccurrences(t *testing.T) {
	svc, resolver := newFixture(t)
	ctx := context.Background()

	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "HMRC Helpline",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	publish(t, svc, edition.ID)

	content := "identify-block:contact:hmrc-helpline and again identify-block:contact:hmrc-helpline"
	resolved, err := resolver.Resolve(ctx, content, "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if strings.Count(resolved, ">HMRC Helpline</span>") != 2 {
		t.Fatalf("expected both occurrences substituted: %s", resolved)
	}
}

func TestResolveWithOverridesUsesSuppliedEdition(t *testing.T) {
	svc, resolver := newFixture(t)
	ctx := context.Background()

	live, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Old Title",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	publish(t, svc, live.ID)

	draft, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		DocumentID: &live.DocumentID,
		Title:      "New Draft Title",
		CreatedBy:  uuid.New(),
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	content := "identify-block:contact:old-title"
	resolved, err := resolver.ResolveWithOverrides(ctx, content, "en", map[uuid.UUID]*documents.Edition{
		live.DocumentID: draft,
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if !strings.Contains(resolved, ">New Draft Title</span>") {
		t.Fatalf("expected draft title in output: %s", resolved)
	}
}

func TestResolveCustomRenderer(t *testing.T) {
	docStore, editionStore := documents.NewMemoryRepositories()
	svc := documents.NewService(docStore, editionStore)
	resolver := embed.NewResolver(svc, embed.WithRenderer(
		interfaces.BlockRendererFunc(func(_ context.Context, edition interfaces.RenderableEdition, _ string) (string, error) {
			return "[[" + edition.Title + "]]", nil
		}),
	))

	ctx := context.Background()
	edition, err := svc.CreateEdition(ctx, documents.CreateEditionRequest{
		Title:     "Custom Block",
		BlockType: "contact",
		CreatedBy: uuid.New(),
	})
	if err != nil {
		t.Fatalf("create edition: %v", err)
	}
	publish(t, svc, edition.ID)

	resolved, err := resolver.Resolve(ctx, "identify-block:contact:custom-block", "en")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved != "[[Custom Block]]" {
		t.Fatalf("expected custom renderer output, got %s", resolved)
	}
}
