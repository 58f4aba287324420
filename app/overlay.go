package app

import (
	"github.com/artpar/themekit/domain/resource"
	"github.com/artpar/themekit/ports"
	"github.com/rs/zerolog"
)

// OverlayResult describes what an overlay contributed to the base store.
type OverlayResult struct {
	Path      string
	Applied   bool
	Merged    int
	Ignored   int // wildcard entries present in the overlay but not merged
	Malformed int
	Err       error
}

// MergeOverlay parses path and copies its exact entries over base.
//
// Overlay wildcards are not merged: an overlay only overrides concrete
// resources. A missing or unreadable overlay leaves base unchanged and is
// reported in the result, never as a failure.
func MergeOverlay(base *resource.Store, path string, loader ports.ResourceLoader, logger zerolog.Logger) OverlayResult {
	res := OverlayResult{Path: path}

	overlay, malformed, err := loader.Load(path)
	if err != nil {
		res.Err = err
		logger.Warn().Err(err).Str("overlay", path).Msg("overlay unavailable, using base resources only")
		return res
	}

	res.Applied = true
	res.Malformed = malformed
	res.Merged = base.MergeExact(overlay)
	res.Ignored = overlay.WildcardLen()

	ev := logger.Debug().
		Str("overlay", path).
		Int("merged", res.Merged)
	if res.Ignored > 0 {
		ev = ev.Int("ignored_wildcards", res.Ignored)
	}
	ev.Msg("overlay merged")

	return res
}
