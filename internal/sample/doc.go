// Package sample inspects audio files and classifies stereo content.
//
// Inspector produces an immutable Properties snapshot per file: nominal
// fields come from the native WAV/AIFF header reader when possible and from
// `sox --i` otherwise, the effective bit-depth and the stereo peak difference
// are always measured with the sox stats effect.
//
// The auto-mono comparison policy lives in MonoByPeakDiff so the planner and
// runner can apply it to an existing snapshot without measuring twice.
package sample
