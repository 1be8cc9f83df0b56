package main

import (
	"context"
	"flag"
	"log"

	"content-autopilot/config"
	"content-autopilot/db"
	"content-autopilot/extractor"
	"content-autopilot/feeder"
	"content-autopilot/parser"
	"content-autopilot/renderer"
	"content-autopilot/repositories"
)

// cmd/extract mines the configured idea sources for one user and fills
// the content_ideas backlog the nightly autopilot ranks.
func main() {
	userID := flag.String("user", "", "user id to mine ideas for")
	perFeed := flag.Int("per-feed", 10, "max articles per source feed")
	flag.Parse()

	if *userID == "" {
		log.Fatal("missing required -user flag")
	}

	config.InitApp()

	ctx := context.Background()
	if err := db.Init(ctx); err != nil {
		log.Fatal("failed to initialize MongoDB:", err)
	}

	sources := config.GetConfig().IdeaSources
	if len(sources) == 0 {
		log.Fatal("no idea_sources configured in config.yaml")
	}

	ideaRepo := repositories.NewContentIdeaRepository(db.Database())
	aiLogRepo := repositories.NewAILogRepository(db.Database())
	ext := extractor.New(aiLogRepo)

	for _, source := range sources {
		items, err := feeder.FetchRssFeeds(source.RSSURL, *perFeed)
		if err != nil {
			config.Logger.Errorf("failed to fetch feed for source %s: %v", source.Name, err)
			continue
		}

		for _, item := range items {
			config.Logger.Infof("%s: mining %q (%s)", source.Name, item.Title, item.Link)

			htmlStr, err := renderer.RenderHTML(item.Link)
			if err != nil {
				config.Logger.Errorf("failed to render HTML for %s: %v", item.Link, err)
				continue
			}

			parsed, err := parser.ParseArticle(htmlStr)
			if err != nil {
				config.Logger.Errorf("failed to parse article for %s: %v", item.Link, err)
				continue
			}

			candidates, err := ext.ExtractIdeas(ctx, *userID, parsed.PlainTextContent)
			if err != nil {
				config.Logger.Errorf("failed to extract ideas from %s: %v", item.Link, err)
				continue
			}

			inserted := 0
			for _, c := range candidates {
				if _, err := ideaRepo.Insert(ctx, c.ToModel(*userID)); err != nil {
					config.Logger.Errorf("failed to insert idea %q: %v", c.Title, err)
					continue
				}
				inserted++
			}
			config.Logger.Infof("%s: %d ideas from %q", source.Name, inserted, item.Title)
		}
	}
}
