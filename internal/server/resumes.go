package server

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/entity"
	"github.com/joseph-ayodele/resume-tracker/internal/export"
	"github.com/joseph-ayodele/resume-tracker/internal/ingest"
	"github.com/joseph-ayodele/resume-tracker/internal/pipeline"
	"github.com/joseph-ayodele/resume-tracker/internal/repository"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

// ResumeServer implements ResumeServiceServer over the pipeline and the
// candidate store.
type ResumeServer struct {
	extractor  pipeline.RecordExtractor
	candidates repository.CandidateRepository
	exporter   *export.Service
	ingestor   ingest.Ingestor // nil disables the ingest RPCs
	logger     *slog.Logger
}

var _ ResumeServiceServer = (*ResumeServer)(nil)

func NewResumeServer(
	extractor pipeline.RecordExtractor,
	candidates repository.CandidateRepository,
	exporter *export.Service,
	ingestor ingest.Ingestor,
	logger *slog.Logger,
) *ResumeServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResumeServer{
		extractor:  extractor,
		candidates: candidates,
		exporter:   exporter,
		ingestor:   ingestor,
		logger:     logger,
	}
}

// ParseResume extracts the record of a PDF on the server's filesystem
// without storing it.
func (s *ResumeServer) ParseResume(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	path := strings.TrimSpace(req.GetValue())
	if path == "" {
		s.logger.Error("parse request missing path")
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}
	if !ingest.AllowedExt(filepath.Ext(path)) {
		return nil, status.Errorf(codes.InvalidArgument, "unsupported file type %q", filepath.Ext(path))
	}

	rec, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Error("parse failed", "path", path, "error", err)
		return nil, common.GRPCError(err)
	}
	out, err := utils.ToPBRecord(rec)
	if err != nil {
		return nil, common.InternalErrorf("encode record: %v", err)
	}
	return out, nil
}

func (s *ResumeServer) GetCandidate(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	c, err := s.candidates.GetByID(ctx, id)
	if err != nil {
		if !repository.IsNotFound(err) {
			s.logger.Error("get candidate failed", "candidate_id", id, "error", err)
		}
		return nil, common.GRPCError(err)
	}
	return candidateStruct(c)
}

func (s *ResumeServer) FindCandidateByEmail(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	email := strings.TrimSpace(req.GetValue())
	v := common.NewValidator().Field("email", email, common.Required, common.Email)
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}
	c, err := s.candidates.GetByEmail(ctx, email)
	if err != nil {
		return nil, common.GRPCError(err)
	}
	return candidateStruct(c)
}

// SearchCandidates filters candidates by the fields of entity.CandidateFilter.
// A "name" field switches to a name search, honoring only limit.
func (s *ResumeServer) SearchCandidates(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	f, err := utils.ToCandidateFilter(withoutField(req, "name"))
	if err != nil {
		return nil, common.InvalidArgumentErrorf("invalid filter: %v", err)
	}
	v := common.NewValidator().
		Field("min_experience", f.MinExperience, common.NonNegative).
		Field("limit", f.Limit, common.NonNegative).
		Field("offset", f.Offset, common.NonNegative).
		Field("keyword", f.Keyword, common.MaxLength(200))
	if err := common.ValidateAndReturnError(v); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.GetFields()["name"].GetStringValue())
	s.logger.Info("searching candidates", "name", name, "filter", f)
	cands, err := func() ([]*entity.Candidate, error) {
		if name != "" {
			return s.candidates.SearchByName(ctx, name, f.Limit)
		}
		return s.candidates.Filter(ctx, f)
	}()
	if err != nil {
		s.logger.Error("search candidates failed", "error", err)
		return nil, common.GRPCError(err)
	}
	out, err := utils.ToPBCandidates(cands)
	if err != nil {
		return nil, common.InternalErrorf("encode candidates: %v", err)
	}
	return out, nil
}

func (s *ResumeServer) DeleteCandidate(ctx context.Context, req *wrapperspb.StringValue) (*emptypb.Empty, error) {
	id, err := parseID(req.GetValue())
	if err != nil {
		return nil, err
	}
	if err := s.candidates.Delete(ctx, id); err != nil {
		return nil, common.GRPCError(err)
	}
	s.logger.Info("candidate deleted", "candidate_id", id)
	return &emptypb.Empty{}, nil
}

func parseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	v := common.NewValidator().Field("id", raw, common.Required, common.UUID)
	if err := common.ValidateAndReturnError(v); err != nil {
		return uuid.Nil, err
	}
	return uuid.MustParse(raw), nil
}

func candidateStruct(c *entity.Candidate) (*structpb.Struct, error) {
	out, err := utils.ToPBCandidate(c)
	if err != nil {
		return nil, common.InternalErrorf("encode candidate: %v", err)
	}
	return out, nil
}

func withoutField(s *structpb.Struct, name string) *structpb.Struct {
	if s == nil {
		return nil
	}
	if _, ok := s.GetFields()[name]; !ok {
		return s
	}
	cp := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(s.GetFields()))}
	for k, v := range s.GetFields() {
		if k != name {
			cp.Fields[k] = v
		}
	}
	return cp
}
