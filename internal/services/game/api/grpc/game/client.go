package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/louisbranch/garoball/internal/services/game/api/wire"
)

// Client calls GameService over a connection.
type Client struct {
	conn grpc.ClientConnInterface
}

// NewClient creates a client over conn.
func NewClient(conn grpc.ClientConnInterface) *Client {
	return &Client{conn: conn}
}

func (c *Client) call(ctx context.Context, name string, req, resp any, opts ...grpc.CallOption) error {
	in, err := toStruct(req)
	if err != nil {
		return err
	}
	out := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+name, in, out, opts...); err != nil {
		return err
	}
	return fromStruct(out, resp)
}

// PutPlayer creates or replaces a player.
func (c *Client) PutPlayer(ctx context.Context, req wire.PutPlayerRequest, opts ...grpc.CallOption) (wire.PlayerResponse, error) {
	var resp wire.PlayerResponse
	err := c.call(ctx, "PutPlayer", req, &resp, opts...)
	return resp, err
}

// GetPlayer returns one player.
func (c *Client) GetPlayer(ctx context.Context, req wire.GetPlayerRequest, opts ...grpc.CallOption) (wire.PlayerResponse, error) {
	var resp wire.PlayerResponse
	err := c.call(ctx, "GetPlayer", req, &resp, opts...)
	return resp, err
}

// ListPlayers returns every player.
func (c *Client) ListPlayers(ctx context.Context, opts ...grpc.CallOption) (wire.ListPlayersResponse, error) {
	var resp wire.ListPlayersResponse
	err := c.call(ctx, "ListPlayers", wire.Empty{}, &resp, opts...)
	return resp, err
}

// CreateGame schedules a game.
func (c *Client) CreateGame(ctx context.Context, req wire.CreateGameRequest, opts ...grpc.CallOption) (wire.GameResponse, error) {
	var resp wire.GameResponse
	err := c.call(ctx, "CreateGame", req, &resp, opts...)
	return resp, err
}

// GetGame returns a game.
func (c *Client) GetGame(ctx context.Context, req wire.GetGameRequest, opts ...grpc.CallOption) (wire.GameResponse, error) {
	var resp wire.GameResponse
	err := c.call(ctx, "GetGame", req, &resp, opts...)
	return resp, err
}

// Simulate advances a game.
func (c *Client) Simulate(ctx context.Context, req wire.SimulateRequest, opts ...grpc.CallOption) (wire.SimulateResponse, error) {
	var resp wire.SimulateResponse
	err := c.call(ctx, "Simulate", req, &resp, opts...)
	return resp, err
}

// ListPlays returns a page of a game's plays.
func (c *Client) ListPlays(ctx context.Context, req wire.ListPlaysRequest, opts ...grpc.CallOption) (wire.ListPlaysResponse, error) {
	var resp wire.ListPlaysResponse
	err := c.call(ctx, "ListPlays", req, &resp, opts...)
	return resp, err
}

// ListStandings returns every team's record.
func (c *Client) ListStandings(ctx context.Context, opts ...grpc.CallOption) (wire.ListStandingsResponse, error) {
	var resp wire.ListStandingsResponse
	err := c.call(ctx, "ListStandings", wire.Empty{}, &resp, opts...)
	return resp, err
}
