// Package cache maintains the on-disk audio library backing the drills.
// Every vocabulary entry owns one file per playback speed, named from the
// entry's base name plus the speed's suffix. The package derives and
// deduplicates those names, repairs missing files against the synthesis
// service, and resolves an entry and speed to a playable path.
package cache
