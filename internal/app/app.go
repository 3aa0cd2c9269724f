package app

import (
	"fmt"
	"net/http"

	"github.com/matchpulse/api/internal/config"
	"github.com/matchpulse/api/internal/domain/match"
	"github.com/matchpulse/api/internal/domain/session"
	"github.com/matchpulse/api/internal/domain/team"
	"github.com/matchpulse/api/internal/domain/user"
	"github.com/matchpulse/api/internal/infrastructure/password"
	cacherepo "github.com/matchpulse/api/internal/infrastructure/repository/cache"
	"github.com/matchpulse/api/internal/infrastructure/repository/memory"
	"github.com/matchpulse/api/internal/infrastructure/repository/postgres"
	"github.com/matchpulse/api/internal/infrastructure/sportsfeed"
	"github.com/matchpulse/api/internal/interfaces/httpapi"
	basecache "github.com/matchpulse/api/internal/platform/cache"
	idgen "github.com/matchpulse/api/internal/platform/id"
	"github.com/matchpulse/api/internal/platform/logging"
	"github.com/matchpulse/api/internal/usecase"
)

type repositories struct {
	teams    team.Repository
	matches  match.Repository
	users    user.Repository
	sessions session.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		repos.teams = cacherepo.NewTeamRepository(repos.teams, store)
		repos.matches = cacherepo.NewMatchRepository(repos.matches, store)
	}

	ids := idgen.NewRandomGenerator()

	teamSvc := usecase.NewTeamService(repos.teams, repos.matches)
	formSvc := usecase.NewFormService(repos.teams, repos.matches)
	trendSvc := usecase.NewTrendService(repos.teams, repos.matches)
	difficultySvc := usecase.NewDifficultyService(repos.teams, repos.matches)

	sessionSvc := usecase.NewSessionService(repos.sessions, ids, ids, cfg.RefreshTokenTTL)
	authSvc := usecase.NewAuthService(
		repos.users,
		sessionSvc,
		password.NewBcryptHasher(cfg.BcryptCost),
		ids,
	)

	var feed usecase.SportsFeed
	if cfg.FeedEnabled {
		feed = sportsfeed.NewClient(
			&http.Client{Timeout: cfg.FeedTimeout},
			cfg.FeedBaseURL,
			cfg.FeedAPIKey,
			logger,
		)
	}
	syncSvc := usecase.NewSyncService(feed, repos.teams, repos.matches, cfg.SyncWorkers, logger)

	handler := httpapi.NewHandler(teamSvc, formSvc, trendSvc, difficultySvc, authSvc, syncSvc, logger)
	router := httpapi.NewRouter(handler, authSvc, logger, cfg.CORSAllowedOrigins, cfg.InternalSyncToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func buildRepositories(cfg config.Config) (repositories, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		return repositories{
			teams:    memory.NewTeamRepository(memory.SeedTeams()),
			matches:  memory.NewMatchRepository(memory.SeedMatches()),
			users:    memory.NewUserRepository(),
			sessions: memory.NewSessionRepository(),
		}, nil
	case config.StorageDriverPostgres:
		db, err := openDB(cfg)
		if err != nil {
			return repositories{}, err
		}
		return repositories{
			teams:    postgres.NewTeamRepository(db),
			matches:  postgres.NewMatchRepository(db),
			users:    postgres.NewUserRepository(db),
			sessions: postgres.NewSessionRepository(db),
		}, nil
	default:
		return repositories{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
