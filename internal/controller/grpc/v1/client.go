package grpcv1

import (
	"context"

	"google.golang.org/grpc"
)

// Client reports exceptions from another process.
type Client struct {
	conn grpc.ClientConnInterface
}

func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) Report(ctx context.Context, req *ReportRequest, opts ...grpc.CallOption) (*ReportResponse, error) {
	out := new(ReportResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.conn.Invoke(ctx, ReportMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
