// movie-catalog/internal/clients/catalog_lookup_client.go
package clients

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"movie-catalog/internal/domain"
	lookup "movie-catalog/internal/grpc"
)

// CatalogLookupClient checks entity existence against a remote catalog.v1.CatalogLookup service.
type CatalogLookupClient struct {
	conn    *grpc.ClientConn
	timeout time.Duration
	logger  *slog.Logger
}

// NewCatalogLookupClient creates a lazily connecting client for target.
func NewCatalogLookupClient(target string, timeout time.Duration, logger *slog.Logger, opts ...grpc.DialOption) (*CatalogLookupClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		logger.Error("Failed to create catalog lookup client", slog.String("target", target), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create lookup client for %s: %w", target, err)
	}
	logger.Info("Catalog lookup client created", slog.String("target", target))
	return &CatalogLookupClient{conn: conn, timeout: timeout, logger: logger}, nil
}

// Exists implements the integrity validator's existence check remotely.
func (c *CatalogLookupClient) Exists(ctx context.Context, kind domain.Kind, id string) (bool, error) {
	var method string
	switch kind {
	case domain.KindDirector:
		method = lookup.DirectorExistsMethod
	case domain.KindMovie:
		method = lookup.MovieExistsMethod
	default:
		return false, fmt.Errorf("remote lookup does not support kind %q", kind)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	out := new(wrapperspb.BoolValue)
	if err := c.conn.Invoke(callCtx, method, wrapperspb.String(id), out); err != nil {
		st, _ := status.FromError(err)
		c.logger.ErrorContext(ctx, "Catalog lookup call failed",
			slog.String("method", method),
			slog.String("id", id),
			slog.String("code", st.Code().String()),
			slog.String("message", st.Message()))
		return false, fmt.Errorf("grpc %s failed for id %s: %w", method, id, err)
	}
	return out.GetValue(), nil
}

func (c *CatalogLookupClient) Close() error {
	if c.conn == nil {
		return nil
	}
	c.logger.Info("Closing catalog lookup connection")
	return c.conn.Close()
}
