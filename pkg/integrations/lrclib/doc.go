// Package lrclib looks up song lyrics on lrclib.net.
//
// [Client.Search] takes the first search result. Synced lyrics are parsed
// as LRC; a track with only plain lyrics gets lines spaced
// [lyrics.DefaultPlainStep] apart. Either way the result feeds
// [lyrics.NewTimed] directly.
//
// [lyrics.DefaultPlainStep]: github.com/matzehuels/obscura/pkg/lyrics.DefaultPlainStep
// [lyrics.NewTimed]: github.com/matzehuels/obscura/pkg/lyrics.NewTimed
package lrclib
