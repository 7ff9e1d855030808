package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully-qualified gRPC service name.
const ServiceName = "resumes.v1.ResumeService"

// ResumeServiceServer is the server API for resumes.v1.ResumeService.
// Messages are protobuf well-known types: records and candidates travel as
// Structs with the JSON field names of the entity package.
type ResumeServiceServer interface {
	ParseResume(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetCandidate(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	FindCandidateByEmail(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	SearchCandidates(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	DeleteCandidate(context.Context, *wrapperspb.StringValue) (*emptypb.Empty, error)
	ExportCandidates(context.Context, *structpb.Struct) (*wrapperspb.BytesValue, error)
	IngestFile(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	IngestDirectory(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

func RegisterResumeServiceServer(s grpc.ServiceRegistrar, srv ResumeServiceServer) {
	s.RegisterService(&ResumeService_ServiceDesc, srv)
}

// unary builds the method descriptor of one unary RPC.
func unary[Req proto.Message](name string, newReq func() Req, call func(ResumeServiceServer, context.Context, Req) (any, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ResumeServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(Req))
			})
		},
	}
}

func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }
func newStruct() *structpb.Struct        { return new(structpb.Struct) }

var ResumeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ResumeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("ParseResume", newString, func(s ResumeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.ParseResume(ctx, in)
		}),
		unary("GetCandidate", newString, func(s ResumeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.GetCandidate(ctx, in)
		}),
		unary("FindCandidateByEmail", newString, func(s ResumeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.FindCandidateByEmail(ctx, in)
		}),
		unary("SearchCandidates", newStruct, func(s ResumeServiceServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.SearchCandidates(ctx, in)
		}),
		unary("DeleteCandidate", newString, func(s ResumeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.DeleteCandidate(ctx, in)
		}),
		unary("ExportCandidates", newStruct, func(s ResumeServiceServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.ExportCandidates(ctx, in)
		}),
		unary("IngestFile", newString, func(s ResumeServiceServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
			return s.IngestFile(ctx, in)
		}),
		unary("IngestDirectory", newStruct, func(s ResumeServiceServer, ctx context.Context, in *structpb.Struct) (any, error) {
			return s.IngestDirectory(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "resumes/v1/resume.proto",
}

// ResumeServiceClient is the client API for resumes.v1.ResumeService.
type ResumeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewResumeServiceClient(cc grpc.ClientConnInterface) *ResumeServiceClient {
	return &ResumeServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ResumeServiceClient) ParseResume(ctx context.Context, path string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "ParseResume", wrapperspb.String(path), opts...)
}

func (c *ResumeServiceClient) GetCandidate(ctx context.Context, id string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "GetCandidate", wrapperspb.String(id), opts...)
}

func (c *ResumeServiceClient) FindCandidateByEmail(ctx context.Context, email string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "FindCandidateByEmail", wrapperspb.String(email), opts...)
}

func (c *ResumeServiceClient) SearchCandidates(ctx context.Context, filter *structpb.Struct, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	return invoke[structpb.ListValue](ctx, c.cc, "SearchCandidates", filter, opts...)
}

func (c *ResumeServiceClient) DeleteCandidate(ctx context.Context, id string, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "DeleteCandidate", wrapperspb.String(id), opts...)
	return err
}

func (c *ResumeServiceClient) ExportCandidates(ctx context.Context, filter *structpb.Struct, opts ...grpc.CallOption) ([]byte, error) {
	out, err := invoke[wrapperspb.BytesValue](ctx, c.cc, "ExportCandidates", filter, opts...)
	if err != nil {
		return nil, err
	}
	return out.GetValue(), nil
}

func (c *ResumeServiceClient) IngestFile(ctx context.Context, path string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "IngestFile", wrapperspb.String(path), opts...)
}

func (c *ResumeServiceClient) IngestDirectory(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, "IngestDirectory", req, opts...)
}
