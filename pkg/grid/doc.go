// Package grid holds the letter matrix that lyrics emerge from.
//
// A [Grid] is a fixed [Size]×[Size] matrix of lowercase letters with a
// parallel opacity matrix. Every cell is always populated: cells that are not
// owned by placed lyric text ("ambient" cells) show noise drawn from a seeded
// [noise.Source], and [Grid.RefreshAmbient] redraws them on whatever cadence
// the caller chooses.
//
// # Placement
//
// [Grid.Place] tokenizes a lyric with [Tokenize] and drops each word into the
// grid horizontally or vertically. Placement keeps a reading-order floor: the
// first cell of every new word has a strictly greater row-major index than
// the first cell of the word before it, so scanning the grid left to right,
// top to bottom reads the words in order. Words try to keep a one-cell halo
// from other words, and fall back to touching (never overlapping) when the
// grid gets crowded. A word that fits nowhere ends the call; whatever was
// placed so far stays.
//
// All operations are total. Nothing in this package returns an error.
//
// A Grid is not safe for concurrent use.
package grid
