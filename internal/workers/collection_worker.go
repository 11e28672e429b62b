package workers

import (
	"context"
	"hash/fnv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/alimgiray/coursescope/internal/models"
	"github.com/alimgiray/coursescope/internal/services"
	"github.com/alimgiray/coursescope/pkg/logger"
)

// errorBackoff is how long a worker waits after it failed to list repositories
const errorBackoff = 5 * time.Second

// RepositoryCollector lists and refreshes tracked repositories
type RepositoryCollector interface {
	TrackedRepositories() ([]*models.Repository, error)
	CollectRepository(ctx context.Context, repo *models.Repository) (*services.CollectionResult, error)
}

// CollectionWorker periodically refreshes the tracked repositories of its shard.
// With n workers, worker i owns the repositories whose ID hashes to i mod n, so no
// repository is collected twice at the same time.
type CollectionWorker struct {
	*BaseWorker
	collector RepositoryCollector
	interval  time.Duration
	shard     int
	shards    int
	now       func() time.Time
}

// NewCollectionWorker creates worker shard of shards
func NewCollectionWorker(workerID string, collector RepositoryCollector, interval time.Duration, shard, shards int) *CollectionWorker {
	if shards < 1 {
		shards = 1
	}
	return &CollectionWorker{
		BaseWorker: NewBaseWorker(workerID),
		collector:  collector,
		interval:   interval,
		shard:      shard,
		shards:     shards,
		now:        time.Now,
	}
}

// Start begins the collection loop
func (w *CollectionWorker) Start(ctx context.Context) error {
	w.setRunning(true)
	defer w.setRunning(false)

	log := logger.WithField("worker_id", w.WorkerID)
	log.Info("Collection worker started")

	for {
		wait := w.interval
		if err := w.RunOnce(ctx); err != nil {
			log.WithError(err).Error("Failed to list tracked repositories")
			wait = errorBackoff
		}

		select {
		case <-ctx.Done():
			log.Info("Collection worker stopping due to context cancellation")
			return ctx.Err()
		case <-w.StopChan:
			log.Info("Collection worker stopping")
			return nil
		case <-time.After(wait):
		}
	}
}

// RunOnce collects every due repository of the worker's shard. A failing repository
// is logged and skipped; only failing to list repositories is returned.
func (w *CollectionWorker) RunOnce(ctx context.Context) error {
	repos, err := w.collector.TrackedRepositories()
	if err != nil {
		return err
	}

	for _, repo := range repos {
		if ctx.Err() != nil {
			return nil
		}
		if !w.owns(repo) || !w.isDue(repo) {
			continue
		}

		if _, err := w.collector.CollectRepository(ctx, repo); err != nil {
			logger.ForRepository(repo.ID).WithFields(logrus.Fields{
				"worker_id": w.WorkerID,
				"full_name": repo.FullName,
			}).WithError(err).Warn("Repository collection failed")
		}
	}
	return nil
}

func (w *CollectionWorker) owns(repo *models.Repository) bool {
	if w.shards == 1 {
		return true
	}
	h := fnv.New32a()
	h.Write([]byte(repo.ID))
	return int(h.Sum32()%uint32(w.shards)) == w.shard
}

func (w *CollectionWorker) isDue(repo *models.Repository) bool {
	if repo.LastCollected == nil {
		return true
	}
	return w.now().Sub(*repo.LastCollected) >= w.interval
}
