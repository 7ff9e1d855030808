package server

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/joseph-ayodele/resume-tracker/internal/common"
	"github.com/joseph-ayodele/resume-tracker/internal/utils"
)

// ExportCandidates returns an XLSX workbook of the candidates matching the
// filter. An empty filter exports everything.
func (s *ResumeServer) ExportCandidates(ctx context.Context, req *structpb.Struct) (*wrapperspb.BytesValue, error) {
	f, err := utils.ToCandidateFilter(req)
	if err != nil {
		return nil, common.InvalidArgumentErrorf("invalid filter: %v", err)
	}
	if s.exporter == nil {
		return nil, common.InternalError("export is not configured")
	}

	xlsx, err := s.exporter.ExportCandidatesXLSX(ctx, f)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "filter", f, "err", err)
		return nil, common.GRPCError(err)
	}
	return wrapperspb.Bytes(xlsx), nil
}
