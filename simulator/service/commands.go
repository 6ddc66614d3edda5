package service

import (
	"context"

	"github.com/Gthulhu/fleetsim/pkg/logger"
	"github.com/Gthulhu/fleetsim/simulator/domain"
	"github.com/pkg/errors"
)

const (
	commandMigrate         = "migrate"
	commandMigrateComplete = "migrate_complete"
	commandScale           = "scale"
	commandRecommendation  = "apply_recommendation"
)

// Migrate starts moving a pod to target. The pod is MIGRATING when Migrate returns;
// the move completes asynchronously after the migration delay.
func (e *Engine) Migrate(ctx context.Context, podID string, target domain.Environment) error {
	if !target.Valid() {
		return errors.Wrapf(domain.ErrInvalidArgument, "target environment %q", target)
	}

	e.mu.Lock()
	event, err := e.fleet.ApplyMigrationStart(podID, target)
	if err != nil {
		e.mu.Unlock()
		e.observe(commandMigrate, err)
		return err
	}
	e.recordLocked(event)
	e.aggregateLocked()
	e.mu.Unlock()
	e.observe(commandMigrate, nil)

	bgCtx := logger.Logger(ctx).WithContext(context.Background())
	e.scheduler.Schedule(e.migrationDelay, func() {
		e.completeMigration(bgCtx, podID, target)
	})
	logger.Logger(ctx).Info().Str("pod_id", podID).Str("target", string(target)).Msg("migration started")
	return nil
}

func (e *Engine) completeMigration(ctx context.Context, podID string, target domain.Environment) {
	e.mu.Lock()
	event, ok := e.fleet.ApplyMigrationComplete(podID, target)
	if !ok {
		e.mu.Unlock()
		if e.observer != nil {
			e.observer.ObserveCommand(commandMigrateComplete, "stale")
		}
		logger.Logger(ctx).Debug().Str("pod_id", podID).Msg("stale migration completion ignored")
		return
	}
	e.recordLocked(event)
	e.aggregateLocked()
	e.mu.Unlock()
	e.observe(commandMigrateComplete, nil)
	logger.Logger(ctx).Info().Str("pod_id", podID).Str("target", string(target)).Msg("migration completed")
}

// Scale adds or removes one replica of a RUNNING pod.
func (e *Engine) Scale(ctx context.Context, podID string, direction domain.ScaleDirection) (domain.Pod, error) {
	if !direction.Valid() {
		return domain.Pod{}, errors.Wrapf(domain.ErrInvalidArgument, "scale direction %q", direction)
	}

	e.mu.Lock()
	pod, event, err := e.fleet.ApplyScale(podID, direction)
	if err != nil {
		e.mu.Unlock()
		e.observe(commandScale, err)
		return domain.Pod{}, err
	}
	e.recordLocked(event)
	e.aggregateLocked()
	e.mu.Unlock()
	e.observe(commandScale, nil)
	logger.Logger(ctx).Info().Str("pod_id", podID).Str("direction", string(direction)).Int("replicas", pod.Replicas).Msg("pod scaled")
	return pod, nil
}

// ApplyRecommendation turns a recommendation into a migrate or scale command.
// OPTIMIZE recommendations and unknown target pods are ignored without error.
func (e *Engine) ApplyRecommendation(ctx context.Context, rec *domain.Recommendation) (domain.RecommendationOutcome, error) {
	if err := rec.Validate(); err != nil {
		return domain.OutcomeIgnored, err
	}
	if rec.Type == domain.RecommendationOptimize || rec.TargetPodID == "" {
		return domain.OutcomeIgnored, nil
	}

	pod, err := e.Pod(rec.TargetPodID)
	if err != nil {
		logger.Logger(ctx).Debug().Str("recommendation_id", rec.ID).Str("pod_id", rec.TargetPodID).Msg("recommendation target not found, ignored")
		return domain.OutcomeIgnored, nil
	}

	switch rec.Type {
	case domain.RecommendationMigrate:
		target := pod.Environment.Opposite()
		if e.honorTarget && rec.TargetEnvironment.Valid() {
			if rec.TargetEnvironment == pod.Environment {
				return domain.OutcomeIgnored, nil
			}
			target = rec.TargetEnvironment
		}
		err = e.Migrate(ctx, pod.ID, target)
	case domain.RecommendationScale:
		_, err = e.Scale(ctx, pod.ID, domain.ScaleUp)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return domain.OutcomeIgnored, nil
	}
	if err != nil {
		if e.observer != nil {
			e.observer.ObserveCommand(commandRecommendation, "rejected")
		}
		return domain.OutcomeIgnored, err
	}
	if e.observer != nil {
		e.observer.ObserveCommand(commandRecommendation, "applied")
	}
	return domain.OutcomeApplied, nil
}
