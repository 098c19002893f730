package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"research-chat-be/internal/config"
	"research-chat-be/internal/constant"
	"research-chat-be/internal/dto"
	"research-chat-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

type ISystemService interface {
	GetConfig(ctx context.Context) (*dto.ConfigResponse, error)
}

type systemService struct {
	db     *gorm.DB
	cfg    *config.Config
	cache  *cache.Cache
	client *http.Client
	logger logger.ILogger
}

func NewSystemService(db *gorm.DB, cfg *config.Config, log logger.ILogger) ISystemService {
	return &systemService{
		db:     db,
		cfg:    cfg,
		cache:  cache.New(cache.NoExpiration, 0),
		client: &http.Client{Timeout: 5 * time.Second},
		logger: log,
	}
}

// GetConfig reports the running version, whether a newer release exists and
// whether the database answers. The health probe is capped at two seconds so
// a hung database cannot stall the endpoint.
func (s *systemService) GetConfig(ctx context.Context) (*dto.ConfigResponse, error) {
	latest := s.latestVersion(ctx)

	return &dto.ConfigResponse{
		Version:         constant.Version,
		LatestVersion:   latest,
		UpdateAvailable: latest != "" && latest != constant.Version,
		DatabaseOk:      s.databaseOk(ctx),
		LLMProvider:     s.cfg.Ai.LLMProvider,
		LLMModel:        s.cfg.Ai.LLMModel,
	}, nil
}

func (s *systemService) databaseOk(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	sqlDB, err := s.db.DB()
	if err != nil {
		return false
	}
	return sqlDB.PingContext(probeCtx) == nil
}

const latestVersionKey = "latest_version"

// latestVersion asks GitHub for the newest release tag once per process;
// after the first successful answer the cached value is reused for the
// lifetime of the server.
func (s *systemService) latestVersion(ctx context.Context) string {
	if x, found := s.cache.Get(latestVersionKey); found {
		return x.(string)
	}

	url := fmt.Sprintf("https://api.github.com/repos/%s/releases/latest", s.cfg.App.GithubRepo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("SystemService", "Release check failed", map[string]interface{}{"error": err.Error()})
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return ""
	}

	version := strings.TrimPrefix(release.TagName, "v")
	if version != "" {
		s.cache.Set(latestVersionKey, version, cache.NoExpiration)
	}
	return version
}
