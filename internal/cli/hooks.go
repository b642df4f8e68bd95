package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports playback, lookup, cache and HTTP events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnUnitChange(index int, text string, placed, total int) {
	if index < 0 {
		h.logger.Debug("lyric cleared")
		return
	}
	if placed < total {
		h.logger.Debug("lyric partially placed", "unit", index, "placed", placed, "words", total)
		return
	}
	h.logger.Debug("lyric placed", "unit", index, "text", text, "words", total)
}

func (h *logHooks) OnComplete(elapsed time.Duration) {
	h.logger.Debug("playback complete", "elapsed", elapsed.Round(time.Millisecond))
}

func (h *logHooks) OnLookupStart(_ context.Context, query string) {
	h.logger.Debug("looking up lyrics", "query", query)
}

func (h *logHooks) OnLookupComplete(_ context.Context, query string, lines int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("lyrics lookup failed", "query", query, "err", err)
		return
	}
	h.logger.Debug("lyrics lookup done", "query", query, "lines", lines, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h *logHooks) OnCacheMiss(_ context.Context, key string) {
	h.logger.Debug("cache miss", "key", key)
}

func (h *logHooks) OnCacheSet(_ context.Context, key string, size int) {
	h.logger.Debug("cache set", "key", key, "bytes", size)
}

func (h *logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h *logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
