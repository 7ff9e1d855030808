package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/resume-tracker/internal/entity"
)

func StrOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// HashFile returns the hex sha256 of the file content.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func(f *os.File) { _ = f.Close() }(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ToPBRecord converts an extracted record to a protobuf Struct.
func ToPBRecord(r *entity.Record) (*structpb.Struct, error) {
	return toStruct(r)
}

// ToPBCandidate converts a stored candidate to a protobuf Struct. Absent
// fields are omitted; created_at is RFC 3339 UTC.
func ToPBCandidate(c *entity.Candidate) (*structpb.Struct, error) {
	cp := *c
	cp.CreatedAt = c.CreatedAt.UTC().Truncate(time.Second)
	return toStruct(&cp)
}

func ToPBCandidates(cs []*entity.Candidate) (*structpb.ListValue, error) {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(cs))}
	for _, c := range cs {
		s, err := ToPBCandidate(c)
		if err != nil {
			return nil, err
		}
		out.Values = append(out.Values, structpb.NewStructValue(s))
	}
	return out, nil
}

// ToCandidateFilter reads a filter from a protobuf Struct with the JSON
// field names of entity.CandidateFilter. A nil struct is the empty filter.
func ToCandidateFilter(s *structpb.Struct) (entity.CandidateFilter, error) {
	var f entity.CandidateFilter
	if s == nil {
		return f, nil
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("filter: %w", err)
	}
	return f, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, err
	}
	return s, nil
}
