package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"

	"github.com/sells-group/airquality-cli/internal/aqi"
	"github.com/sells-group/airquality-cli/internal/fetcher"
	"github.com/sells-group/airquality-cli/internal/monitoring"
	"github.com/sells-group/airquality-cli/internal/resilience"
	"github.com/sells-group/airquality-cli/internal/store"
	"github.com/sells-group/airquality-cli/pkg/ninjas"
)

// appEnv holds the initialized store, provider client and fetcher needed by
// the commands.
type appEnv struct {
	Store     store.Store
	Records   *store.Records
	Validator *aqi.Validator
	Metrics   *monitoring.Metrics
	Breakers  *resilience.Breakers
	Fetcher   *fetcher.Fetcher // nil unless requested
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv sets up and migrates the store and, when withFetcher is set, the
// provider client. Callers should defer env.Close().
func initEnv(ctx context.Context, withFetcher bool) (*appEnv, error) {
	if withFetcher {
		if err := cfg.RequireAPIKey(); err != nil {
			return nil, err
		}
	}

	v := aqi.NewValidator(cfg.Validation)
	st, err := initStore(ctx, v)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	m := monitoring.NewMetrics()
	env := &appEnv{
		Store:     st,
		Records:   store.NewRecords(st, m),
		Validator: v,
		Metrics:   m,
		Breakers:  resilience.NewBreakers(cfg.Breaker),
	}

	if withFetcher {
		client := ninjas.NewClient(cfg.Provider.APIKey,
			ninjas.WithBaseURL(cfg.Provider.BaseURL),
			ninjas.WithHTTPClient(&http.Client{Timeout: cfg.Provider.Timeout()}),
			ninjas.WithRateLimit(cfg.Provider.RateLimit, cfg.Provider.RateBurst),
			ninjas.WithBreakers(env.Breakers),
		)
		env.Fetcher = fetcher.New(client, m)
	}
	return env, nil
}

func initStore(ctx context.Context, v *aqi.Validator) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "airquality.db"
		}
		return store.NewSQLite(dsn, v)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &cfg.Store.Pool, v)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// useColor reports whether w is a terminal and color was not disabled.
func useColor(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
