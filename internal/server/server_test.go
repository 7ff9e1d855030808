package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/resume-tracker/internal/async"
	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/export"
	"github.com/joseph-ayodele/resume-tracker/internal/ingest"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
)

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, path string) (*entity.Record, error) {
	if filepath.Base(path) == "broken.pdf" {
		return nil, common.DocumentError(path, errors.New("no xref table"))
	}
	return &entity.Record{
		Name:         "Nadia Berrada",
		Email:        "nadia@example.com",
		Language:     "english",
		Skills:       []string{"Go"},
		DocumentPath: path,
	}, nil
}

type stubIngestor struct {
	err error
}

func (s stubIngestor) IngestPath(_ context.Context, path string, _ bool) (ingest.IngestionResult, error) {
	if s.err != nil {
		return ingest.IngestionResult{}, s.err
	}
	return ingest.IngestionResult{SourcePath: path, HashHex: "abc", Queued: true}, nil
}

func (s stubIngestor) IngestDirectory(_ context.Context, root string, recursive, _ bool) ([]ingest.IngestionResult, ingest.DirStats, error) {
	if !recursive {
		return nil, ingest.DirStats{}, nil
	}
	r := []ingest.IngestionResult{{SourcePath: filepath.Join(root, "a.pdf"), Queued: true}}
	return r, ingest.DirStats{Scanned: 1, Matched: 1, Succeeded: 1}, nil
}

type fixture struct {
	client     *ResumeServiceClient
	conn       *grpc.ClientConn
	candidates repository.CandidateRepository
}

func setup(t *testing.T, ing ingest.Ingestor) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := repository.Open(ctx, repository.Config{
		Driver: repository.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "server.db"),
	}, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	cands := repository.NewCandidateRepository(db, logger)

	svc := NewResumeServer(stubExtractor{}, cands, export.NewService(cands, logger), ing, logger)
	gs, _ := NewGRPCServer(svc, logger)
	lis := bufconn.Listen(1 << 20)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return &fixture{client: NewResumeServiceClient(conn), conn: conn, candidates: cands}
}

func (f *fixture) seed(t *testing.T, rec *entity.Record) *entity.Candidate {
	t.Helper()
	c, err := f.candidates.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return c
}

func wantCode(t *testing.T, err error, code codes.Code) {
	t.Helper()
	if got := status.Code(err); got != code {
		t.Fatalf("code = %v, want %v (err %v)", got, code, err)
	}
}

func TestHealth(t *testing.T) {
	f := setup(t, nil)
	resp, err := healthpb.NewHealthClient(f.conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status = %v, want SERVING", resp.GetStatus())
	}
}

func TestParseResume(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()

	got, err := f.client.ParseResume(ctx, "/cv/nadia.pdf")
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}
	if name := got.GetFields()["name"].GetStringValue(); name != "Nadia Berrada" {
		t.Fatalf("name = %q, want %q", name, "Nadia Berrada")
	}
	if p := got.GetFields()["document_path"].GetStringValue(); p != "/cv/nadia.pdf" {
		t.Fatalf("document_path = %q", p)
	}

	tests := []struct {
		path string
		code codes.Code
	}{
		{"", codes.InvalidArgument},
		{"/cv/nadia.docx", codes.InvalidArgument},
		{"/cv/broken.pdf", codes.FailedPrecondition},
	}
	for _, tt := range tests {
		_, err := f.client.ParseResume(ctx, tt.path)
		wantCode(t, err, tt.code)
	}
}

func TestCandidateLookups(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	c := f.seed(t, &entity.Record{
		Name:         "Omar Tazi",
		Email:        "omar.tazi@example.com",
		City:         "Fes",
		Language:     "french",
		DocumentPath: "/cv/omar.pdf",
	})

	got, err := f.client.GetCandidate(ctx, c.ID.String())
	if err != nil {
		t.Fatalf("GetCandidate: %v", err)
	}
	if id := got.GetFields()["id"].GetStringValue(); id != c.ID.String() {
		t.Fatalf("id = %q, want %q", id, c.ID)
	}

	got, err = f.client.FindCandidateByEmail(ctx, "OMAR.TAZI@example.com")
	if err != nil {
		t.Fatalf("FindCandidateByEmail: %v", err)
	}
	if city := got.GetFields()["city"].GetStringValue(); city != "Fes" {
		t.Fatalf("city = %q, want Fes", city)
	}

	_, err = f.client.GetCandidate(ctx, "not-a-uuid")
	wantCode(t, err, codes.InvalidArgument)
	_, err = f.client.GetCandidate(ctx, uuid.NewString())
	wantCode(t, err, codes.NotFound)
	_, err = f.client.FindCandidateByEmail(ctx, "nobody")
	wantCode(t, err, codes.InvalidArgument)
	_, err = f.client.FindCandidateByEmail(ctx, "nobody@example.com")
	wantCode(t, err, codes.NotFound)

	if err := f.client.DeleteCandidate(ctx, c.ID.String()); err != nil {
		t.Fatalf("DeleteCandidate: %v", err)
	}
	wantCode(t, f.client.DeleteCandidate(ctx, c.ID.String()), codes.NotFound)
}

func TestSearchCandidates(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	f.seed(t, &entity.Record{Name: "Karim Alaoui", City: "Rabat", Skills: []string{"Go"}, ExperienceYears: 5, Language: "english", DocumentPath: "/cv/k.pdf"})
	f.seed(t, &entity.Record{Name: "Leila Alaoui", City: "Tanger", Skills: []string{"Java"}, ExperienceYears: 1, Language: "french", DocumentPath: "/cv/l.pdf"})

	search := func(m map[string]any) []string {
		t.Helper()
		s, err := structpb.NewStruct(m)
		if err != nil {
			t.Fatalf("NewStruct: %v", err)
		}
		list, err := f.client.SearchCandidates(ctx, s)
		if err != nil {
			t.Fatalf("SearchCandidates(%v): %v", m, err)
		}
		var names []string
		for _, v := range list.GetValues() {
			names = append(names, v.GetStructValue().GetFields()["name"].GetStringValue())
		}
		return names
	}

	if got := search(map[string]any{"city": "rabat"}); len(got) != 1 || got[0] != "Karim Alaoui" {
		t.Fatalf("city search = %v", got)
	}
	if got := search(map[string]any{"min_experience": 2}); len(got) != 1 || got[0] != "Karim Alaoui" {
		t.Fatalf("experience search = %v", got)
	}
	if got := search(map[string]any{"name": "alaoui"}); len(got) != 2 {
		t.Fatalf("name search = %v, want 2 matches", got)
	}
	if got := search(map[string]any{}); len(got) != 2 {
		t.Fatalf("empty filter = %v, want 2", got)
	}

	bad, _ := structpb.NewStruct(map[string]any{"min_experience": -1})
	_, err := f.client.SearchCandidates(ctx, bad)
	wantCode(t, err, codes.InvalidArgument)
}

func TestExportCandidates(t *testing.T) {
	f := setup(t, nil)
	ctx := context.Background()
	f.seed(t, &entity.Record{Name: "Hind Chraibi", Language: "french", Skills: []string{"SQL", "Excel"}, DocumentPath: "/cv/h.pdf"})

	b, err := f.client.ExportCandidates(ctx, &structpb.Struct{})
	if err != nil {
		t.Fatalf("ExportCandidates: %v", err)
	}
	x, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer x.Close()
	rows, err := x.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "Hind Chraibi" {
		t.Fatalf("rows = %v", rows)
	}
}

func TestIngestRPCs(t *testing.T) {
	ctx := context.Background()

	_, err := setup(t, nil).client.IngestFile(ctx, "/cv/a.pdf")
	wantCode(t, err, codes.Unimplemented)

	f := setup(t, stubIngestor{})
	got, err := f.client.IngestFile(ctx, "/cv/a.pdf")
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}
	if !got.GetFields()["queued"].GetBoolValue() {
		t.Fatalf("IngestFile result = %v, want queued", got)
	}
	_, err = f.client.IngestFile(ctx, " ")
	wantCode(t, err, codes.InvalidArgument)

	req, _ := structpb.NewStruct(map[string]any{"root": "/cv"})
	dir, err := f.client.IngestDirectory(ctx, req)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}
	if n := dir.GetFields()["succeeded"].GetNumberValue(); n != 1 {
		t.Fatalf("succeeded = %v, want 1", n)
	}
	if files := dir.GetFields()["files"].GetListValue().GetValues(); len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}

	full := setup(t, stubIngestor{err: async.ErrQueueFull})
	_, err = full.client.IngestFile(ctx, "/cv/a.pdf")
	wantCode(t, err, codes.ResourceExhausted)
}
