// Package lyrics slices lyric text into timed units and decides which unit
// is current at a given moment.
//
// Two [Scheduler] implementations share one contract so a frame driver can
// hold either:
//
//   - [Paced] splits raw text into lines, words or short tokens and gives
//     each unit the same fixed duration, scaled by a speed multiplier.
//   - [Timed] follows externally supplied onsets, typically parsed from LRC
//     synced lyrics with [ParseLRC].
//
// Schedulers are pure functions of elapsed time. They keep a start anchor
// and nothing else: deciding whether the current unit changed since the last
// frame is left to the caller, which compares [Unit.Index] values.
//
// Times are [time.Duration] offsets on whatever monotonic clock the caller
// uses. Passing a time before the start anchor yields no unit and an
// incomplete schedule; it is never an error.
package lyrics
