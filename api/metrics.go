package api

import "github.com/prometheus/client_golang/prometheus"

var (
	listingFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repogallery_listing_fetches_total",
			Help: "Directory listings fetched from the image source",
		},
		[]string{"result"},
	)

	listingCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "repogallery_listing_cache_hits_total",
			Help: "Directory listings served from the memo",
		},
	)

	listingInvalidations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "repogallery_listing_invalidations_total",
			Help: "Refresh actions that cleared the listing memo",
		},
	)

	imageFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repogallery_image_fetches_total",
			Help: "Single image downloads from the image source",
		},
		[]string{"result"},
	)

	slideshowTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repogallery_slideshow_transitions_total",
			Help: "Slideshow navigation actions applied",
		},
		[]string{"action"},
	)

	sessionsPruned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "repogallery_sessions_pruned_total",
			Help: "Idle sessions removed from the session store",
		},
	)
)

func init() {
	prometheus.MustRegister(listingFetches)
	prometheus.MustRegister(listingCacheHits)
	prometheus.MustRegister(listingInvalidations)
	prometheus.MustRegister(imageFetches)
	prometheus.MustRegister(slideshowTransitions)
	prometheus.MustRegister(sessionsPruned)
}
