// services/serp_service_test.go
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rankscope/rankscope-backend/internal/config"
	"github.com/rankscope/rankscope-backend/internal/models"
	"github.com/rankscope/rankscope-backend/internal/repos"
)

type fakeKeywordRepo struct {
	keywords []*models.Keyword
}

func (f *fakeKeywordRepo) Create(ctx context.Context, q repos.Querier, keyword *models.Keyword) error {
	return nil
}
func (f *fakeKeywordRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.Keyword, error) {
	return nil, repos.ErrNotFound
}
func (f *fakeKeywordRepo) ListActive(ctx context.Context, q repos.Querier, groupID *uuid.UUID) ([]*models.Keyword, error) {
	return f.keywords, nil
}
func (f *fakeKeywordRepo) Update(ctx context.Context, q repos.Querier, keyword *models.Keyword) error {
	return nil
}
func (f *fakeKeywordRepo) SoftDelete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	return nil
}
func (f *fakeKeywordRepo) CountActive(ctx context.Context, q repos.Querier) (int, error) {
	return len(f.keywords), nil
}

type fakeProviderRepo struct {
	providers []*models.LLMProvider
}

func (f *fakeProviderRepo) Create(ctx context.Context, q repos.Querier, provider *models.LLMProvider) error {
	return nil
}
func (f *fakeProviderRepo) GetByID(ctx context.Context, q repos.Querier, id uuid.UUID) (*models.LLMProvider, error) {
	return nil, repos.ErrNotFound
}
func (f *fakeProviderRepo) List(ctx context.Context, q repos.Querier) ([]*models.LLMProvider, error) {
	return f.providers, nil
}
func (f *fakeProviderRepo) ListActive(ctx context.Context, q repos.Querier) ([]*models.LLMProvider, error) {
	return f.providers, nil
}
func (f *fakeProviderRepo) Update(ctx context.Context, q repos.Querier, provider *models.LLMProvider) error {
	return nil
}
func (f *fakeProviderRepo) Delete(ctx context.Context, q repos.Querier, id uuid.UUID) error {
	return nil
}

// fakeSerpRepo reports every pair fresh or every pair stale.
type fakeSerpRepo struct {
	fresh        bool
	recentChecks int
	created      []*models.SerpResult
}

func (f *fakeSerpRepo) Create(ctx context.Context, q repos.Querier, serp *models.SerpResult) error {
	if serp.ID == uuid.Nil {
		serp.ID = uuid.New()
	}
	f.created = append(f.created, serp)
	return nil
}
func (f *fakeSerpRepo) GetRecent(ctx context.Context, q repos.Querier, keywordID, providerID uuid.UUID, after time.Time) (*models.SerpResult, error) {
	f.recentChecks++
	if f.fresh {
		return &models.SerpResult{ID: uuid.New(), KeywordID: keywordID, ProviderID: providerID}, nil
	}
	return nil, repos.ErrNotFound
}
func (f *fakeSerpRepo) ListByKeyword(ctx context.Context, q repos.Querier, keywordID uuid.UUID) ([]*models.SerpResult, error) {
	return nil, nil
}
func (f *fakeSerpRepo) Count(ctx context.Context, q repos.Querier) (int, error) {
	return 0, nil
}

func serpTestConfig() *config.Config {
	return &config.Config{
		Worker: config.WorkerConfig{
			FreshnessDays:    14,
			ProgressLogEvery: 10,
		},
	}
}

func newSerpTestService(rm *RepositoryManager, cfg *config.Config) SerpUpdateService {
	factory := NewProviderFactory(cfg, NewCostService())
	return NewSerpService(cfg, rm, factory, nil, NewMentionService(), testLogger())
}

func TestUpdateSerpDataSkipsFreshPairs(t *testing.T) {
	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best laptops"},
		{ID: uuid.New(), Name: "gaming laptops"},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "my-gateway", APIKey: "test-key", APIURL: "http://localhost:1", Model: "m"},
	}}
	serps := &fakeSerpRepo{fresh: true}
	rm.SerpRepo = serps

	summary, err := newSerpTestService(rm, serpTestConfig()).UpdateSerpData(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TotalPairs != 2 {
		t.Errorf("expected 2 total pairs, got %d", summary.TotalPairs)
	}
	if summary.Skipped != 2 {
		t.Errorf("expected 2 skipped pairs, got %d", summary.Skipped)
	}
	if summary.Processed != 0 || summary.Failed != 0 {
		t.Errorf("expected no processed or failed pairs, got %+v", summary)
	}
	if serps.recentChecks != 2 {
		t.Errorf("expected a freshness check per pair, got %d", serps.recentChecks)
	}
}

func TestUpdateSerpDataSkipsProvidersWithoutCredentials(t *testing.T) {
	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best laptops"},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "grok"}, // no key anywhere
	}}
	rm.SerpRepo = &fakeSerpRepo{}

	summary, err := newSerpTestService(rm, serpTestConfig()).UpdateSerpData(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if summary.TotalPairs != 0 {
		t.Errorf("expected no usable pairs, got %d", summary.TotalPairs)
	}
	if summary.Processed != 0 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Errorf("expected an empty summary, got %+v", summary)
	}
}

func TestUpdateSerpDataContinuesAfterPairFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best laptops"},
		{ID: uuid.New(), Name: "gaming laptops"},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "my-gateway", APIKey: "test-key", APIURL: server.URL, Model: "m"},
	}}
	rm.SerpRepo = &fakeSerpRepo{}

	summary, err := newSerpTestService(rm, serpTestConfig()).UpdateSerpData(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Failed != 2 {
		t.Errorf("expected both pairs to fail, got %d", summary.Failed)
	}
	if len(summary.Errors) != 2 {
		t.Errorf("expected 2 recorded errors, got %d", len(summary.Errors))
	}
	if summary.Processed != 0 {
		t.Errorf("expected no processed pairs, got %d", summary.Processed)
	}
}

func TestUpdateSerpDataStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best laptops"},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "my-gateway", APIKey: "test-key", APIURL: "http://localhost:1", Model: "m"},
	}}
	rm.SerpRepo = &fakeSerpRepo{}

	summary, err := newSerpTestService(rm, serpTestConfig()).UpdateSerpData(ctx, nil)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary == nil || summary.Processed != 0 {
		t.Fatalf("expected the partial summary back, got %+v", summary)
	}
}

func TestBuildMentionRowsPerCompetitor(t *testing.T) {
	serpID := uuid.New()
	projectID := uuid.New()
	brandPos := 1
	competitorPos := 3

	analysis := &MentionAnalysis{
		BrandMentioned: true,
		BrandPosition:  &brandPos,
		Confidence:     95,
		Competitors: []CompetitorMention{
			{Name: "RivalOne", Mentioned: true, Position: &competitorPos},
			{Name: "RivalTwo", Mentioned: false},
		},
	}

	rows := buildMentionRows(serpID, projectID, analysis)
	if len(rows) != 2 {
		t.Fatalf("expected one row per competitor, got %d", len(rows))
	}

	for _, row := range rows {
		if row.SerpID != serpID || row.ProjectID != projectID {
			t.Error("row not linked to serp and project")
		}
		if !row.BrandMentioned || row.BrandPosition == nil || *row.BrandPosition != 1 {
			t.Error("brand fields must repeat on every row")
		}
		if row.MentionedCompetitor == nil {
			t.Error("competitor name must be set even when not mentioned")
		}
		if row.Confidence != 95 {
			t.Errorf("unexpected confidence %d", row.Confidence)
		}
	}

	if !rows[0].CompetitorMentioned || rows[0].CompetitorPosition == nil || *rows[0].CompetitorPosition != 3 {
		t.Error("mentioned competitor must carry its position")
	}
	if rows[1].CompetitorMentioned || rows[1].CompetitorPosition != nil {
		t.Error("absent competitor must have no position")
	}
}

// fakeTx satisfies repos.Tx; the repos under test ignore the Querier, so
// the statement methods are inert.
type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (t *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}
func (t *fakeTx) DriverName() string          { return "postgres" }
func (t *fakeTx) Rebind(query string) string  { return query }
func (t *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return query, nil, nil
}
func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}
func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeCompanyRepo struct {
	failCreate bool
	created    []*models.SerpCompany
}

func (f *fakeCompanyRepo) Create(ctx context.Context, q repos.Querier, company *models.SerpCompany) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.created = append(f.created, company)
	return nil
}
func (f *fakeCompanyRepo) ListBySerp(ctx context.Context, q repos.Querier, serpID uuid.UUID) ([]*models.SerpCompany, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) ListByGroup(ctx context.Context, q repos.Querier, groupID uuid.UUID) ([]*models.SerpCompany, error) {
	return nil, nil
}
func (f *fakeCompanyRepo) Count(ctx context.Context, q repos.Querier) (int, error) {
	return len(f.created), nil
}

type fakeCompetitorRepo struct {
	competitors []*models.Competitor
}

func (f *fakeCompetitorRepo) Create(ctx context.Context, q repos.Querier, competitor *models.Competitor) error {
	return nil
}
func (f *fakeCompetitorRepo) ListByProject(ctx context.Context, q repos.Querier, projectID uuid.UUID) ([]*models.Competitor, error) {
	return f.competitors, nil
}
func (f *fakeCompetitorRepo) DeleteByProject(ctx context.Context, q repos.Querier, projectID uuid.UUID) error {
	return nil
}

func chatAnswerServer(content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
			"usage": map[string]int{"prompt_tokens": 1, "completion_tokens": 1},
		})
	}))
}

func TestProcessPairWritesEverythingInOneTransaction(t *testing.T) {
	content := "1. Acme Corp - the leading company for widgets\n" +
		"2. RivalOne - another brand to consider"
	server := chatAnswerServer(content)
	defer server.Close()

	groupID := uuid.New()
	project := &models.BrandProject{ID: uuid.New(), BrandName: "Acme Corp"}

	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best widgets", GroupID: &groupID},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "my-gateway", APIKey: "test-key", APIURL: server.URL, Model: "m"},
	}}
	serps := &fakeSerpRepo{}
	rm.SerpRepo = serps
	companies := &fakeCompanyRepo{}
	rm.CompanyRepo = companies
	rm.ProjectRepo = &fakeProjectRepo{byGroup: []*models.BrandProject{project}}
	rm.CompetitorRepo = &fakeCompetitorRepo{competitors: []*models.Competitor{
		{ID: uuid.New(), Name: "RivalOne", ProjectID: project.ID},
	}}
	mentions := &fakeMentionRepo{}
	rm.MentionRepo = mentions

	var txs []*fakeTx
	rm.beginTx = func(ctx context.Context) (repos.Tx, error) {
		tx := &fakeTx{}
		txs = append(txs, tx)
		return tx, nil
	}

	cfg := serpTestConfig()
	factory := NewProviderFactory(cfg, NewCostService())
	extractor := &extractService{hasKey: false, log: testLogger()}
	svc := NewSerpService(cfg, rm, factory, extractor, NewMentionService(), testLogger())

	summary, err := svc.UpdateSerpData(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Failed != 0 {
		t.Fatalf("expected one processed pair, got %+v", summary)
	}

	if len(txs) != 1 {
		t.Fatalf("expected one transaction, got %d", len(txs))
	}
	if !txs[0].committed || txs[0].rolledBack {
		t.Fatalf("expected the transaction to commit, got %+v", txs[0])
	}

	if len(serps.created) != 1 || serps.created[0].Content != content {
		t.Fatalf("unexpected serp rows: %+v", serps.created)
	}
	if len(companies.created) != 2 {
		t.Fatalf("expected 2 extracted companies, got %+v", companies.created)
	}
	for _, company := range companies.created {
		if company.SerpID == nil || *company.SerpID != serps.created[0].ID {
			t.Error("company rows must link the stored serp result")
		}
	}

	if len(mentions.created) != 1 {
		t.Fatalf("expected one mention row, got %d", len(mentions.created))
	}
	mention := mentions.created[0]
	if mention.SerpID != serps.created[0].ID || mention.ProjectID != project.ID {
		t.Error("mention row not linked to serp and project")
	}
	if !mention.BrandMentioned || mention.BrandPosition == nil || *mention.BrandPosition != 1 {
		t.Errorf("unexpected brand fields: %+v", mention)
	}
	if mention.MentionedCompetitor == nil || *mention.MentionedCompetitor != "RivalOne" {
		t.Errorf("unexpected competitor name: %+v", mention.MentionedCompetitor)
	}
	if !mention.CompetitorMentioned || mention.CompetitorPosition == nil || *mention.CompetitorPosition != 2 {
		t.Errorf("unexpected competitor fields: %+v", mention)
	}
}

func TestProcessPairRollsBackOnWriteFailure(t *testing.T) {
	server := chatAnswerServer("1. Acme Corp - the leading company for widgets")
	defer server.Close()

	rm := testRepoManager()
	rm.KeywordRepo = &fakeKeywordRepo{keywords: []*models.Keyword{
		{ID: uuid.New(), Name: "best widgets"},
		{ID: uuid.New(), Name: "cheap widgets"},
	}}
	rm.ProviderRepo = &fakeProviderRepo{providers: []*models.LLMProvider{
		{ID: uuid.New(), Name: "my-gateway", APIKey: "test-key", APIURL: server.URL, Model: "m"},
	}}
	rm.SerpRepo = &fakeSerpRepo{}
	rm.CompanyRepo = &fakeCompanyRepo{failCreate: true}
	mentions := &fakeMentionRepo{}
	rm.MentionRepo = mentions

	var txs []*fakeTx
	rm.beginTx = func(ctx context.Context) (repos.Tx, error) {
		tx := &fakeTx{}
		txs = append(txs, tx)
		return tx, nil
	}

	cfg := serpTestConfig()
	factory := NewProviderFactory(cfg, NewCostService())
	extractor := &extractService{hasKey: false, log: testLogger()}
	svc := NewSerpService(cfg, rm, factory, extractor, NewMentionService(), testLogger())

	summary, err := svc.UpdateSerpData(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}

	if summary.Failed != 2 || summary.Processed != 0 {
		t.Fatalf("expected both pairs to fail and the batch to continue, got %+v", summary)
	}
	if len(txs) != 2 {
		t.Fatalf("expected one transaction per pair, got %d", len(txs))
	}
	for i, tx := range txs {
		if tx.committed {
			t.Errorf("tx %d must not commit after a failed write", i)
		}
		if !tx.rolledBack {
			t.Errorf("tx %d must roll back after a failed write", i)
		}
	}
	if len(mentions.created) != 0 {
		t.Fatalf("no mention rows expected, got %d", len(mentions.created))
	}
}

func TestBuildMentionRowsBrandOnly(t *testing.T) {
	analysis := &MentionAnalysis{BrandMentioned: false, Confidence: 95}

	rows := buildMentionRows(uuid.New(), uuid.New(), analysis)
	if len(rows) != 1 {
		t.Fatalf("expected a single brand-only row, got %d", len(rows))
	}
	if rows[0].MentionedCompetitor != nil {
		t.Error("brand-only row must not name a competitor")
	}
}
