// Package audio plays cached MP3 clips through the system audio device
// using oto/v3, with a silent mock for tests and for running without a
// sound card.
package audio
