package provider

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	pb "github.com/o9nn/ecco9/gen/mind"
	"github.com/o9nn/ecco9/internal/thought"
)

// #region client-struct

// Client wraps the gRPC connection to an external mind service that
// composes thought content. It satisfies the thought engine's provider
// seam.
type Client struct {
	conn   *grpc.ClientConn
	client pb.MindServiceClient
}

var _ thought.Provider = (*Client)(nil)

// #endregion client-struct

// #region constructor

// NewClient connects to a mind service gRPC server.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("grpc dial %s: %w", addr, err)
	}
	return &Client{
		conn:   conn,
		client: pb.NewMindServiceClient(conn),
	}, nil
}

// NewClientWithService creates a Client with an injected service implementation.
// Used for testing without a real gRPC connection.
func NewClientWithService(svc pb.MindServiceClient) *Client {
	return &Client{client: svc}
}

// #endregion constructor

// #region close

// Close shuts down the gRPC connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// #endregion close

// #region generate-thought

// GenerateThought asks the mind service to compose one thought and
// returns its content.
func (c *Client) GenerateThought(ctx context.Context, req thought.ProviderRequest) (string, error) {
	resp, err := c.client.GenerateThought(ctx, &pb.ThoughtRequest{
		ThoughtType: string(req.Type),
		Prompt:      req.Prompt,
		Topic:       req.Topic,
		Tone:        req.Tone,
		Depth:       req.Depth,
		Recent:      req.Recent,
	})
	if err != nil {
		return "", fmt.Errorf("generate thought rpc: %w", err)
	}
	return resp.Content, nil
}

// #endregion generate-thought
