package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/budget-hunter/internal/api/handler/router"
	"github.com/vfg2006/budget-hunter/internal/usecases/aggregating"
	"github.com/vfg2006/budget-hunter/internal/usecases/committing"
	"github.com/vfg2006/budget-hunter/internal/usecases/syncing"
	"github.com/vfg2006/budget-hunter/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Rotas liberadas do bearer JWT
const (
	PathHealthcheck   = "/healthcheck"
	PathDailySync     = "/v1/cron/daily-sync"
	PathIntegritySync = "/v1/cron/integrity-sync"
)

// PublicPaths lista as rotas que o AuthMiddleware deixa passar
func PublicPaths() []string {
	return []string{PathHealthcheck, PathDailySync, PathIntegritySync}
}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    PathHealthcheck,
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Sync(syncer syncing.Syncer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/sync/stream",
			Method:  http.MethodGet,
			Handler: StreamSync(syncer),
		},
	}
}

func Commit(committer committing.Committer) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/commit",
			Method:  http.MethodPost,
			Handler: CommitCampaigns(committer),
		},
	}
}

func DailyStats(aggregator aggregating.Aggregator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/accounts/:id/daily-stats",
			Method:  http.MethodGet,
			Handler: GetDailyStats(aggregator),
		},
	}
}

func CronJobs(services CronJobServices, schedulerSecret string) []router.Route {
	secretOnly := []func(http.Handler) http.Handler{middleware.SchedulerSecret(schedulerSecret)}

	return []router.Route{
		{
			Path:        PathDailySync,
			Method:      http.MethodPost,
			Handler:     RunDailySync(services.Syncer),
			Middlewares: secretOnly,
		},
		{
			Path:        PathIntegritySync,
			Method:      http.MethodPost,
			Handler:     RunIntegritySync(services.Syncer),
			Middlewares: secretOnly,
		},
		{
			Path:    "/v1/cron/run/:type",
			Method:  http.MethodPost,
			Handler: RunCronJob(services),
		},
		{
			Path:    "/v1/cron/status",
			Method:  http.MethodGet,
			Handler: GetCronStatus(services),
		},
	}
}
