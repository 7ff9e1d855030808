package server

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/resume-tracker/internal/async"
	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/ingest"
)

// IngestFile queues one PDF for processing unless its content was already
// processed.
func (s *ResumeServer) IngestFile(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	if s.ingestor == nil {
		return nil, status.Error(codes.Unimplemented, "ingestion is not enabled")
	}
	path := strings.TrimSpace(req.GetValue())
	if path == "" {
		s.logger.Error("ingest request missing path")
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}

	s.logger.Info("starting file ingest", "path", path)
	r, err := s.ingestor.IngestPath(ctx, path, false)
	if err != nil {
		s.logger.Error("file ingest failed", "path", path, "error", err)
		return nil, ingestStatus(err)
	}
	s.logger.Info("file ingest succeeded", "path", r.SourcePath, "queued", r.Queued, "deduplicated", r.Deduplicated)
	return resultStruct(r), nil
}

// IngestDirectory ingests every PDF under root. Request fields: root
// (required), recursive (default true), force.
func (s *ResumeServer) IngestDirectory(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.ingestor == nil {
		return nil, status.Error(codes.Unimplemented, "ingestion is not enabled")
	}
	fields := req.GetFields()
	root := strings.TrimSpace(fields["root"].GetStringValue())
	if root == "" {
		return nil, status.Error(codes.InvalidArgument, "root is required")
	}
	recursive := true
	if v, ok := fields["recursive"]; ok {
		recursive = v.GetBoolValue()
	}
	force := fields["force"].GetBoolValue()

	results, stats, err := s.ingestor.IngestDirectory(ctx, root, recursive, force)
	if err != nil {
		s.logger.Error("directory ingest failed", "root", root, "error", err)
		return nil, ingestStatus(err)
	}

	files := make([]*structpb.Value, 0, len(results))
	for _, r := range results {
		files = append(files, structpb.NewStructValue(resultStruct(r)))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"scanned":      structpb.NewNumberValue(float64(stats.Scanned)),
		"matched":      structpb.NewNumberValue(float64(stats.Matched)),
		"succeeded":    structpb.NewNumberValue(float64(stats.Succeeded)),
		"deduplicated": structpb.NewNumberValue(float64(stats.Deduplicated)),
		"failed":       structpb.NewNumberValue(float64(stats.Failed)),
		"files":        structpb.NewListValue(&structpb.ListValue{Values: files}),
	}}, nil
}

func resultStruct(r ingest.IngestionResult) *structpb.Struct {
	f := map[string]*structpb.Value{
		"source_path":  structpb.NewStringValue(r.SourcePath),
		"content_hash": structpb.NewStringValue(r.HashHex),
		"deduplicated": structpb.NewBoolValue(r.Deduplicated),
		"queued":       structpb.NewBoolValue(r.Queued),
	}
	if r.CandidateID != nil {
		f["candidate_id"] = structpb.NewStringValue(r.CandidateID.String())
	}
	if r.Err != "" {
		f["error"] = structpb.NewStringValue(r.Err)
	}
	return &structpb.Struct{Fields: f}
}

func ingestStatus(err error) error {
	switch {
	case errors.Is(err, async.ErrQueueFull):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, async.ErrQueueClosed):
		return status.Error(codes.Unavailable, err.Error())
	}
	return common.GRPCError(err)
}
