// Package pkg holds the libraries behind obscura, a lyric player that
// hides each line of a song in a 12×12 grid of drifting letters.
//
// # Overview
//
// Playback is a pipeline of small, deterministic pieces:
//
//	lyric text / LRC / lrclib lookup
//	         ↓
//	    [lyrics] (paced or timed schedule: which unit is current at t)
//	         ↓
//	    [player] (change detection, ambient refresh, completion)
//	         ↓
//	    [grid] (reading-order word placement over seeded noise)
//	         ↓
//	    terminal view / JSON frame / HTTP session
//
// Everything below [player] is a pure function of the seed and the
// sequence of ticks, so a frame can be rebuilt from (text, seed, offset).
//
// # Quick Start
//
//	g := grid.New(42)
//	s := lyrics.NewPaced("hello world\nsecond line", lyrics.PaceLine, 1)
//	p := player.New(g, s, player.Options{})
//	p.Play()
//	f := p.Tick(0)
//	fmt.Println(f.Unit.Text) // hello world
//	fmt.Println(g.Snapshot())
//
// # Packages
//
// Core:
//
//   - [noise] seeded linear congruential generator
//   - [grid] letter grid, word placement and snapshots
//   - [lyrics] schedulers, LRC parsing and pacing
//   - [player] tick-driven playback over a grid and a scheduler
//
// Infrastructure:
//
//   - [config] TOML configuration
//   - [cache] file, Redis and no-op caches for lookups
//   - [integrations] cached HTTP client and the lrclib lyrics service
//   - [httputil] retry with backoff
//   - [session] playback sessions for the HTTP API (memory or Redis)
//   - [observability] playback and lookup hooks
//   - [errors] coded errors and input validation
//   - [buildinfo] version stamping
//
// [noise]: github.com/matzehuels/obscura/pkg/noise
// [grid]: github.com/matzehuels/obscura/pkg/grid
// [lyrics]: github.com/matzehuels/obscura/pkg/lyrics
// [player]: github.com/matzehuels/obscura/pkg/player
// [config]: github.com/matzehuels/obscura/pkg/config
// [cache]: github.com/matzehuels/obscura/pkg/cache
// [integrations]: github.com/matzehuels/obscura/pkg/integrations
// [httputil]: github.com/matzehuels/obscura/pkg/httputil
// [session]: github.com/matzehuels/obscura/pkg/session
// [observability]: github.com/matzehuels/obscura/pkg/observability
// [errors]: github.com/matzehuels/obscura/pkg/errors
// [buildinfo]: github.com/matzehuels/obscura/pkg/buildinfo
package pkg
