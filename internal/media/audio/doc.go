// Package audio extracts, measures, and cuts the audio track jumpcut
// analyses.
//
// ExtractWAV runs ffmpeg to produce a PCM WAV from the chosen stream,
// FrameLevels reduces that WAV to one peak-to-peak loudness value per frame,
// and MaskCutter copies only the frames an activity mask keeps. Select picks
// the stream to analyse when a container has several.
package audio
