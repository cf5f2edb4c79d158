package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// stubSoxScript imitates the sox invocations slimsamples makes:
//
//   - `--i -- FILE` prints a 2-channel 24-bit info block
//   - `FILE -n [effects] stats` reports a peak and an effective bit-depth on
//     stderr; with `remix 1,2i` the peak is -inf
//   - `FILE -n spectrogram ... -o OUT` writes OUT
//   - anything else is a conversion: the second positional argument receives
//     the input bytes followed by a marker line
//
// Set STUB_SOX_FAIL=1 to make conversions exit non-zero.
const stubSoxScript = `#!/bin/sh
if [ "$1" = "--i" ]; then
  echo "Channels       : 2"
  echo "Sample Rate    : 48000"
  echo "Precision      : 24-bit"
  echo "Sample Encoding: 24-bit Signed Integer PCM"
  exit 0
fi
if [ "$2" = "-n" ]; then
  case "$*" in
    *spectrogram*)
      out=""
      while [ $# -gt 0 ]; do
        if [ "$1" = "-o" ]; then out="$2"; fi
        shift
      done
      : > "$out"
      exit 0
      ;;
    *"remix 1,2i"*)
      echo "Pk lev dB      -inf" >&2
      ;;
    *)
      echo "Pk lev dB      -6.02" >&2
      ;;
  esac
  echo "Bit-depth      16/24" >&2
  exit 0
fi
if [ "${STUB_SOX_FAIL:-0}" = "1" ]; then
  echo "stub sox: conversion failed" >&2
  exit 2
fi
src=""
dst=""
while [ $# -gt 0 ]; do
  case "$1" in
    -e|-b|-r) shift; shift; continue ;;
    -*) shift; continue ;;
  esac
  if [ -z "$src" ]; then
    src="$1"
  elif [ -z "$dst" ]; then
    dst="$1"
  fi
  shift
done
cat "$src" > "$dst" || exit 1
echo converted >> "$dst"
`

// WriteStubSox writes the scripted sox stand-in into dir and returns its path.
func WriteStubSox(t testing.TB, dir string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "sox")
	if err := os.WriteFile(path, []byte(stubSoxScript), 0o755); err != nil {
		t.Fatalf("write stub sox: %v", err)
	}
	return path
}
