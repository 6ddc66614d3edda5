package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"
	"time"

	cache "github.com/Code-Hex/go-generics-cache"
	"github.com/Gthulhu/fleetsim/config"
	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/pkg/util"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"go.uber.org/fx"
	"k8s.io/utils/clock"
)

const (
	topPodsLimit = 5

	defaultRecentErrorLogs = 3
	defaultLogExcerpt      = 50
	defaultCacheTTL        = 30 * time.Second

	AnalysisUnavailable = "No analysis available."
	AnalysisFailed      = "Failed to analyze logs."
)

type Params struct {
	fx.In
	SimulationConfig config.SimulationConfig
	AdvisorConfig    config.AdvisorConfig
	Advisor          domain.Advisor
	Clock            clock.WithTickerAndDelayedExecution `optional:"true"`
	Registerer       prometheus.Registerer               `optional:"true"`
}

func NewService(params Params) (*Service, error) {
	simCfg := params.SimulationConfig
	advCfg := params.AdvisorConfig

	seed := simCfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	instanceID := util.GetInstanceID()
	collector := NewFleetCollector(instanceID)

	engine := NewEngine(EngineOptions{
		Clock:                  params.Clock,
		Rand:                   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		TickInterval:           simCfg.TickInterval,
		MigrationDelay:         simCfg.MigrationDelay,
		HistorySize:            simCfg.HistorySize,
		ErrorWindow:            simCfg.ErrorWindow,
		HonorTargetEnvironment: advCfg.HonorTargetEnvironment,
		Observer:               collector,
	})
	if simCfg.FleetFile != "" {
		pods, err := LoadFleetSeed(simCfg.FleetFile)
		if err != nil {
			return nil, err
		}
		for _, pod := range pods {
			if _, err := engine.AddPod(pod); err != nil {
				return nil, fmt.Errorf("seed fleet: %w", err)
			}
		}
	} else if err := engine.PopulateInitialFleet(simCfg.InitialPods, simCfg.OnPremPods); err != nil {
		return nil, fmt.Errorf("populate initial fleet: %w", err)
	}
	collector.engine = engine

	if params.Registerer != nil {
		if err := params.Registerer.Register(collector); err != nil {
			return nil, fmt.Errorf("failed to register fleet collector: %v", err)
		}
	}

	svc := &Service{
		engine:          engine,
		advisor:         params.Advisor,
		collector:       collector,
		adviceCache:     cache.New[string, []*domain.Recommendation](),
		analysisCache:   cache.New[string, string](),
		cacheTTL:        orDefault(advCfg.CacheTTL, defaultCacheTTL),
		recentErrorLogs: orDefault(advCfg.RecentErrorLogs, defaultRecentErrorLogs),
		logExcerpt:      orDefault(advCfg.LogExcerpt, defaultLogExcerpt),
		recIndex:        util.NewGenericMap[string, *domain.Recommendation](),
	}
	return svc, nil
}

// Service exposes the simulation engine and the advisor to the presentation layer.
type Service struct {
	engine    *Engine
	advisor   domain.Advisor
	collector *FleetCollector

	adviceCache   *cache.Cache[string, []*domain.Recommendation]
	analysisCache *cache.Cache[string, string]
	cacheTTL      time.Duration

	recentErrorLogs int
	logExcerpt      int

	recMu    sync.RWMutex
	latest   []*domain.Recommendation
	recIndex *util.GenericMap[string, *domain.Recommendation]
}

var _ domain.Service = (*Service)(nil)

func orDefault[T int | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}

func (svc *Service) Engine() *Engine {
	return svc.engine
}

// Run drives the tick loop until ctx is cancelled.
func (svc *Service) Run(ctx context.Context) error {
	return svc.engine.Run(ctx)
}

func (svc *Service) Stop() {
	svc.engine.Stop()
}

func (svc *Service) ListPods(ctx context.Context) ([]domain.Pod, error) {
	return svc.engine.Pods(), nil
}

func (svc *Service) GetPod(ctx context.Context, podID string) (domain.Pod, error) {
	return svc.engine.Pod(podID)
}

func (svc *Service) CurrentMetrics(ctx context.Context) (domain.SystemMetrics, error) {
	return svc.engine.CurrentMetrics(), nil
}

func (svc *Service) MetricsHistory(ctx context.Context) ([]domain.SystemMetrics, error) {
	return svc.engine.History(), nil
}

func (svc *Service) ListLogs(ctx context.Context, opt *domain.QueryLogsOptions) error {
	for _, level := range opt.Levels {
		if !level.Valid() {
			return fmt.Errorf("log level %q: %w", level, domain.ErrInvalidArgument)
		}
	}
	if opt.Limit < 0 {
		return fmt.Errorf("limit %d: %w", opt.Limit, domain.ErrInvalidArgument)
	}
	svc.engine.QueryLogs(opt)
	return nil
}

func (svc *Service) Migrate(ctx context.Context, podID string, target domain.Environment) error {
	return svc.engine.Migrate(ctx, podID, target)
}

func (svc *Service) Scale(ctx context.Context, podID string, direction domain.ScaleDirection) (domain.Pod, error) {
	return svc.engine.Scale(ctx, podID, direction)
}

func (svc *Service) ApplyRecommendation(ctx context.Context, rec *domain.Recommendation) (domain.RecommendationOutcome, error) {
	return svc.engine.ApplyRecommendation(ctx, rec)
}

// AnalyzeSystem asks the advisor for recommendations on the current telemetry and
// keeps the answer as the latest set. Advisor failures yield an empty set.
func (svc *Service) AnalyzeSystem(ctx context.Context) ([]*domain.Recommendation, error) {
	snapshot := svc.Telemetry()
	key := snapshotFingerprint(snapshot)

	recs, ok := svc.adviceCache.Get(key)
	if !ok {
		var err error
		recs, err = svc.recommend(ctx, snapshot)
		if err != nil {
			logger.Logger(ctx).Warn().Err(err).Msg("advisor recommendation failed, no recommendations available")
			svc.collector.ObserveCommand("advisor_recommend", "error")
			recs = []*domain.Recommendation{}
		} else {
			svc.collector.ObserveCommand("advisor_recommend", "ok")
			svc.adviceCache.Set(key, recs, cache.WithExpiration(svc.cacheTTL))
		}
	}

	svc.storeLatest(recs)
	return slices.Clone(recs), nil
}

func (svc *Service) recommend(ctx context.Context, snapshot *domain.TelemetrySnapshot) ([]*domain.Recommendation, error) {
	if svc.advisor == nil {
		return nil, domain.ErrNoAdvisor
	}
	raw, err := svc.advisor.Recommend(ctx, snapshot)
	if err != nil {
		return nil, err
	}
	recs := make([]*domain.Recommendation, 0, len(raw))
	for _, rec := range raw {
		if err := rec.Validate(); err != nil {
			logger.Logger(ctx).Warn().Err(err).Msg("dropping invalid recommendation")
			continue
		}
		if rec.ID == "" {
			rec.ID = xid.New().String()
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

func (svc *Service) storeLatest(recs []*domain.Recommendation) {
	index := make(map[string]*domain.Recommendation, len(recs))
	for _, rec := range recs {
		index[rec.ID] = rec
	}
	svc.recMu.Lock()
	defer svc.recMu.Unlock()
	svc.latest = slices.Clone(recs)
	svc.recIndex.Replace(index)
}

func (svc *Service) LatestRecommendations(ctx context.Context) ([]*domain.Recommendation, error) {
	svc.recMu.RLock()
	defer svc.recMu.RUnlock()
	if svc.latest == nil {
		return []*domain.Recommendation{}, nil
	}
	return slices.Clone(svc.latest), nil
}

func (svc *Service) FindRecommendation(ctx context.Context, recID string) (*domain.Recommendation, error) {
	svc.recMu.RLock()
	defer svc.recMu.RUnlock()
	rec, ok := svc.recIndex.Load(recID)
	if !ok {
		return nil, fmt.Errorf("recommendation %s: %w", recID, domain.ErrNotFound)
	}
	return rec, nil
}

// AnalyzeLogs returns the advisor's free text reading of the recent log excerpt.
func (svc *Service) AnalyzeLogs(ctx context.Context) (string, error) {
	excerpt := svc.engine.TailLogs(svc.logExcerpt)
	leaves := make([]string, 0, len(excerpt))
	for _, entry := range excerpt {
		leaves = append(leaves, util.HashStringSHA256Hex(entry.ID))
	}
	key := util.Fingerprint(leaves)
	if text, ok := svc.analysisCache.Get(key); ok {
		return text, nil
	}

	if svc.advisor == nil {
		logger.Logger(ctx).Warn().Err(domain.ErrNoAdvisor).Msg("log analysis skipped")
		return AnalysisFailed, nil
	}
	text, err := svc.advisor.AnalyzeLogs(ctx, excerpt)
	if err != nil {
		logger.Logger(ctx).Warn().Err(err).Msg("advisor log analysis failed")
		svc.collector.ObserveCommand("advisor_analyze_logs", "error")
		return AnalysisFailed, nil
	}
	svc.collector.ObserveCommand("advisor_analyze_logs", "ok")
	if text == "" {
		text = AnalysisUnavailable
	}
	svc.analysisCache.Set(key, text, cache.WithExpiration(svc.cacheTTL))
	return text, nil
}

// Telemetry builds the advisor request from the current engine state.
func (svc *Service) Telemetry() *domain.TelemetrySnapshot {
	pods, metrics, recentErrors := svc.engine.SnapshotWithErrors(svc.recentErrorLogs)
	top := slices.Clone(pods)
	slices.SortStableFunc(top, func(a, b domain.Pod) int {
		return b.CPUUsage - a.CPUUsage
	})
	if len(top) > topPodsLimit {
		top = top[:topPodsLimit]
	}
	return &domain.TelemetrySnapshot{
		Metrics:      metrics,
		Pods:         pods,
		TopPods:      top,
		RecentErrors: recentErrors,
	}
}

func snapshotFingerprint(snapshot *domain.TelemetrySnapshot) string {
	leaves := make([]string, 0, len(snapshot.Pods)+len(snapshot.RecentErrors)+1)
	leaves = append(leaves, util.HashStringSHA256Hex(strconv.FormatInt(snapshot.Metrics.Timestamp.UnixNano(), 10)))
	for _, pod := range snapshot.Pods {
		leaves = append(leaves, util.HashStringSHA256Hex(fmt.Sprintf("%s|%s|%s|%d|%d|%.3f|%d",
			pod.ID, pod.Environment, pod.Status, pod.CPUUsage, pod.MemoryUsage, pod.Latency, pod.Replicas)))
	}
	for _, entry := range snapshot.RecentErrors {
		leaves = append(leaves, util.HashStringSHA256Hex(entry.ID))
	}
	return util.Fingerprint(leaves)
}
