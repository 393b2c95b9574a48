package stqgtfs

import (
	"time"

	"transitdata.ca/stq-gtfs/feed"
	"transitdata.ca/stq-gtfs/model"
)

// MakeFeedInfo builds the feed_info row for a run starting at now.
// The feed span covers the configured fetch window, optionally
// snapped outward to whole months. feed_version is the RFC3339 build
// timestamp.
func MakeFeedInfo(cfg feed.Config, now time.Time) model.FeedInfo {
	start := now.AddDate(0, 0, cfg.EarliestDay)
	end := now.AddDate(0, 0, cfg.LatestDay)

	if cfg.GetFullMonths {
		start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location())
		end = time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location()).
			AddDate(0, 1, -1)
	}

	lang := cfg.Lang
	if lang == "" {
		lang = "fr"
	}

	return model.FeedInfo{
		PublisherName: cfg.PublisherName,
		PublisherURL:  cfg.PublisherURL,
		Lang:          lang,
		DefaultLang:   lang,
		StartDate:     start.Format(gtfsDateLayout),
		EndDate:       end.Format(gtfsDateLayout),
		Version:       now.Format(time.RFC3339),
		ContactURL:    cfg.ContactURL,
	}
}
