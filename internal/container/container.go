package container

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joshua-takyi/gigbook/internal/calendar"
	"github.com/joshua-takyi/gigbook/internal/config"
	"github.com/joshua-takyi/gigbook/internal/connect"
	"github.com/joshua-takyi/gigbook/internal/geocode"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
	"github.com/joshua-takyi/gigbook/internal/services"
	"github.com/redis/go-redis/v9"
	"github.com/supabase-community/supabase-go"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger *slog.Logger
	Config *config.Config

	// Database clients, nil unless the configured driver needs them
	SupabaseClient *supabase.Client
	MongoDBClient  *mongo.Client
	RedisClient    *redis.Client

	GigService  *services.GigService
	BandService *services.BandService
	Calendar    *calendar.Builder
	Geocoder    geocode.Geocoder
	Tokens      helpers.TokenValidator

	jwks *helpers.JWKSValidator
}

// NewContainer connects whatever backends cfg selects and builds the services
// on top of them. Close releases them again.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Logger:   logger,
		Config:   cfg,
		Calendar: calendar.NewBuilder(),
	}

	gigRepo, bandRepo, err := c.openStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	issuer := helpers.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	validators := helpers.Validators{issuer}
	if cfg.JWKSURL != "" {
		jwks, err := helpers.NewJWKSValidator(cfg.JWKSURL, helpers.JWKSOptions{}, logger)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.jwks = jwks
		validators = append(validators, jwks)
		logger.Info("Accepting external tokens", "jwks_url", cfg.JWKSURL)
	}
	c.Tokens = validators

	if c.Geocoder, err = c.openGeocoder(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.GigService = services.NewGigService(gigRepo, cfg.Location())
	c.BandService = services.NewBandService(bandRepo, issuer)
	return c, nil
}

func (c *Container) openStore(ctx context.Context) (models.GigRepo, models.BandRepo, error) {
	switch c.Config.StoreDriver {
	case config.DriverMongo:
		client, err := connect.MongoDBConnect(ctx, c.Config)
		if err != nil {
			return nil, nil, err
		}
		c.MongoDBClient = client
		repo := models.MongodbNewRepo(client, c.Config.MongoDBDatabase)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to create indexes: %w", err)
		}
		c.Logger.Info("Connected to MongoDB successfully")
		return repo, repo, nil
	case config.DriverSupabase:
		client, err := connect.InitSupabase(c.Config)
		if err != nil {
			return nil, nil, err
		}
		c.SupabaseClient = client
		repo := models.SupabaseNewRepo(client)
		c.Logger.Info("Connected to Supabase successfully")
		return repo, repo, nil
	default:
		c.Logger.Warn("Using in-memory store, data is lost on restart")
		repo := models.NewMemoryRepo()
		return repo, repo, nil
	}
}

func (c *Container) openGeocoder(ctx context.Context) (geocode.Geocoder, error) {
	if !c.Config.GeocodingEnabled() {
		c.Logger.Info("Geocoding disabled, locations stay text only")
		return geocode.Disabled{}, nil
	}

	var cache geocode.Cache = geocode.NewMemoryCache()
	if c.Config.RedisAddr != "" {
		rdb, err := connect.ConnectRedis(ctx, c.Config)
		if err != nil {
			return nil, err
		}
		c.RedisClient = rdb
		cache = geocode.NewRedisCache(rdb)
		c.Logger.Info("Connected to Redis successfully")
	}

	mapbox := geocode.NewMapboxClient(c.Config.MapboxAccessToken, 0)
	return geocode.NewCachedGeocoder(mapbox, cache, c.Config.GeocodeCacheTTL, c.Logger), nil
}

func (c *Container) Close() {
	if c.jwks != nil {
		c.jwks.Close()
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Error("Error closing Redis", "error", err)
		}
	}
	if err := connect.MongoDBDisconnect(c.MongoDBClient); err != nil {
		c.Logger.Error("Error disconnecting from MongoDB", "error", err)
	}
	c.SupabaseClient = nil
}
