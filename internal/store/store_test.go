package store

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"

	"frontdesk/internal/migrate"
	"frontdesk/internal/model"
)

// testStore connects to the Postgres named by FRONTDESK_TEST_DSN and
// applies migrations. Tests that need a database are skipped when the
// variable is unset. Owner ids are randomized per test so runs do not
// collide on the partial unique indexes.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("FRONTDESK_TEST_DSN")
	if dsn == "" {
		t.Skip("FRONTDESK_TEST_DSN not set")
	}
	if err := migrate.UpDir(dsn, "../../"+migrate.DefaultDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestUpsertRawCrawlSecondWriteReplacesRecord(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	key := model.OwnerKey{LeadID: "lead-" + uuid.New().String()}

	first, err := st.UpsertRawCrawl(ctx, key, &model.CrawlResult{RawText: "first crawl"})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	second, err := st.UpsertRawCrawl(ctx, key, &model.CrawlResult{
		RawText: "second crawl",
		RawHTML: "<p>second</p>",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("record id changed on upsert: %q -> %q", first.ID, second.ID)
	}
	if second.RawText != "second crawl" || second.RawHTML != "<p>second</p>" {
		t.Fatalf("record = %+v, want the second call's content", second)
	}

	var n int
	if err := st.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM raw_crawl_data WHERE lead_id = $1", key.LeadID).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if n != 1 {
		t.Fatalf("rows for owner = %d, want exactly 1", n)
	}
}

func TestUpsertRawCrawlKeepsOwnersDistinct(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	leadKey := model.OwnerKey{LeadID: "lead-" + uuid.New().String()}
	bizKey := model.OwnerKey{BusinessID: "biz-" + uuid.New().String()}

	leadRec, err := st.UpsertRawCrawl(ctx, leadKey, &model.CrawlResult{RawText: "lead site"})
	if err != nil {
		t.Fatalf("lead upsert: %v", err)
	}
	bizRec, err := st.UpsertRawCrawl(ctx, bizKey, &model.CrawlResult{RawText: "business site"})
	if err != nil {
		t.Fatalf("business upsert: %v", err)
	}
	if leadRec.ID == bizRec.ID {
		t.Fatal("lead and business crawls share a record")
	}

	got, err := st.GetRawCrawl(ctx, leadKey)
	if err != nil {
		t.Fatalf("get lead record: %v", err)
	}
	if got == nil || got.RawText != "lead site" || got.BusinessID != "" {
		t.Fatalf("lead record = %+v", got)
	}

	got, err = st.GetRawCrawl(ctx, bizKey)
	if err != nil {
		t.Fatalf("get business record: %v", err)
	}
	if got == nil || got.RawText != "business site" || got.LeadID != "" {
		t.Fatalf("business record = %+v", got)
	}
}

func TestGetRawCrawlMissingRowIsNil(t *testing.T) {
	st := testStore(t)

	rec, err := st.GetRawCrawl(context.Background(),
		model.OwnerKey{LeadID: "lead-" + uuid.New().String()})
	if err != nil {
		t.Fatalf("GetRawCrawl: %v", err)
	}
	if rec != nil {
		t.Fatalf("record = %+v, want nil for a missing row", rec)
	}
}
