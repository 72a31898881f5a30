package game

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/louisbranch/garoball/internal/services/game/api/wire"
	"github.com/louisbranch/garoball/internal/services/game/domain/roster"
	"github.com/louisbranch/garoball/internal/services/game/service"
	"github.com/louisbranch/garoball/internal/services/game/storage"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "garoball.game.v1.GameService"

// Games is the service the gRPC surface calls. *service.Service implements it.
type Games interface {
	PutPlayer(ctx context.Context, p roster.Player) (roster.Player, error)
	GetPlayer(ctx context.Context, playerID string) (roster.Player, error)
	ListPlayers(ctx context.Context) ([]roster.Player, error)
	CreateGame(ctx context.Context, in service.CreateGameInput) (service.GameView, error)
	GetGame(ctx context.Context, gameID string) (service.GameView, error)
	Simulate(ctx context.Context, gameID, mode string) (service.SimulateResult, error)
	ListPlays(ctx context.Context, gameID string, pageSize int32, pageToken string) (service.PlayPage, error)
	Standings(ctx context.Context) ([]storage.StandingRecord, error)
}

// GameServiceServer is the server API for garoball.game.v1.GameService.
type GameServiceServer interface {
	PutPlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPlayer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPlayers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetGame(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListPlays(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStandings(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var _ GameServiceServer = (*GameService)(nil)

// GameService implements GameServiceServer over Games.
type GameService struct {
	games Games
}

// NewGameService creates a GameService over games.
func NewGameService(games Games) *GameService {
	return &GameService{games: games}
}

// Register adds the service to s.
func Register(s grpc.ServiceRegistrar, svc *GameService) {
	s.RegisterService(&ServiceDesc, svc)
}

// PutPlayer creates or replaces a player.
func (s *GameService) PutPlayer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.PutPlayerRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.games.PutPlayer(ctx, req.Player)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.PlayerResponse{Player: p})
}

// GetPlayer returns one player.
func (s *GameService) GetPlayer(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.GetPlayerRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	p, err := s.games.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.PlayerResponse{Player: p})
}

// ListPlayers returns every player.
func (s *GameService) ListPlayers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	players, err := s.games.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.ListPlayersResponse{Players: players})
}

// CreateGame schedules a game.
func (s *GameService) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.CreateGameRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := s.games.CreateGame(ctx, req.Input())
	if err != nil {
		return nil, err
	}
	return toStruct(wire.FromView(view))
}

// GetGame returns a game.
func (s *GameService) GetGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.GetGameRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	view, err := s.games.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.FromView(view))
}

// Simulate advances a game.
func (s *GameService) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.SimulateRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	res, err := s.games.Simulate(ctx, req.GameID, req.Mode)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.FromSimulate(res))
}

// ListPlays returns a page of a game's plays.
func (s *GameService) ListPlays(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req wire.ListPlaysRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}
	page, err := s.games.ListPlays(ctx, req.GameID, req.PageSize, req.PageToken)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.FromPage(page))
}

// ListStandings returns every team's record.
func (s *GameService) ListStandings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	records, err := s.games.Standings(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(wire.ListStandingsResponse{Standings: records})
}

func decode(in *structpb.Struct, v any) error {
	if err := fromStruct(in, v); err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	return nil
}

type unaryMethod func(*GameService, context.Context, *structpb.Struct) (*structpb.Struct, error)

// method adapts a GameService method to a grpc.MethodDesc.
func method(name string, fn unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return fn(srv.(*GameService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return fn(srv.(*GameService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes GameService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GameServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("PutPlayer", (*GameService).PutPlayer),
		method("GetPlayer", (*GameService).GetPlayer),
		method("ListPlayers", (*GameService).ListPlayers),
		method("CreateGame", (*GameService).CreateGame),
		method("GetGame", (*GameService).GetGame),
		method("Simulate", (*GameService).Simulate),
		method("ListPlays", (*GameService).ListPlays),
		method("ListStandings", (*GameService).ListStandings),
	},
	Metadata: "garoball/game/v1/game.proto",
}
