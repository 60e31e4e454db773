// Package pcm describes 16-bit signed little-endian PCM and reads it from
// common audio files.
//
// Key types:
//   - Format: sample rate and channel count, with byte/duration arithmetic
//   - Source: an io.Reader of s16le PCM that knows its Format
//   - WAVWriter: writes s16le PCM into a WAV file
//
// Sources decode WAV (github.com/go-audio/wav), MP3
// (github.com/hajimehoshi/go-mp3) and Ogg Vorbis
// (github.com/jfreymuth/oggvorbis); raw PCM needs its Format supplied.
//
// Example usage:
//
//	src, err := pcm.OpenFile("speech.wav", pcm.Format{})
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//	frame := src.Format().BytesInDuration(20 * time.Millisecond)
package pcm
