package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/timmy/brunca/internal/catalog"
	"github.com/timmy/brunca/internal/config"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/loader"
	"github.com/timmy/brunca/internal/logger"
)

func main() {
	appLogger := logger.New(&logger.Config{
		Level:       "info",
		Format:      "text",
		Output:      os.Stderr,
		ServiceName: "brunca-browse",
	})
	logger.SetDefaultLogger(appLogger)

	collection := flag.String("collection", "destinations", "Collection to page through: destinations, news or search")
	category := flag.String("category", "", "Destination category id")
	location := flag.String("location", "", "Destination location, by name or id")
	term := flag.String("term", "", "Search term")
	locale := flag.String("locale", "es", "Content language")
	pages := flag.Int("pages", 1, "Maximum number of pages to load")
	configPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to load config")
	}

	client := catalog.NewClient(&catalog.Config{
		BaseURL: cfg.Catalog.BaseURL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Received shutdown signal, canceling...")
		cancel()
	}()

	lcfg := loader.Config{Name: *collection, Locale: *locale, Timeout: cfg.Catalog.Timeout}
	out := json.NewEncoder(os.Stdout)

	switch *collection {
	case "destinations":
		q := domain.DestinationQuery{CategoryID: *category}
		if loc, ok := resolveLocation(*location); ok {
			q.LocationID = loc.ID
		} else if *location != "" {
			appLogger.WithField("location", *location).Fatal("Unknown location")
		}
		browse(ctx, loader.New(client.Destinations(), lcfg), q, *pages, out, appLogger)
	case "news":
		browse(ctx, loader.New(client.News(), lcfg), domain.NewsQuery{}, *pages, out, appLogger)
	case "search":
		browse(ctx, loader.New(client.Search(), lcfg), domain.SearchQuery{Term: *term}, *pages, out, appLogger)
	default:
		appLogger.WithField("collection", *collection).Fatal("Unknown collection")
	}
}

func resolveLocation(value string) (domain.Location, bool) {
	var id int
	if err := json.Unmarshal([]byte(value), &id); err == nil {
		return domain.LocationByID(id)
	}
	return domain.LocationByName(value)
}

// browse loads up to pages pages of q and writes every item as a JSON line.
func browse[T domain.Item, Q loader.Query](ctx context.Context, l *loader.Loader[T, Q], q Q, pages int, out *json.Encoder, log *logger.Logger) {
	if !q.Valid() {
		log.WithField("query", q).Fatal("Query is missing required fields")
	}

	if _, err := l.Query(ctx, q); err != nil {
		log.WithError(err).Fatal("Failed to load first page")
	}
	for i := 1; i < pages && l.State().Page.HasNext(); i++ {
		if err := l.LoadMore(ctx); err != nil {
			log.WithError(err).Error("Failed to load next page")
			break
		}
	}

	st := l.State()
	for _, item := range st.Items {
		if err := out.Encode(item); err != nil {
			log.WithError(err).Fatal("Failed to write item")
		}
	}

	log.WithFields(logger.Fields{
		logger.FieldCollection: l.Name(),
		logger.FieldCount:      len(st.Items),
		logger.FieldPage:       st.Page.CurrentPage,
		"total_pages":          st.Page.TotalPages,
	}).Info("Browse completed")
}
