package encoder_test

import (
	"bytes"
	"log/slog"
	"reflect"
	"testing"

	"squeeze/internal/encoder"
)

func TestBuildArgsFullProfile(t *testing.T) {
	profile := encoder.Profile{
		"encoder":            "x265",
		"quality":            int64(22),
		"peak_framerate":     true,
		"max_width":          int64(1920),
		"max_height":         int64(0),
		"audio_encoders":     []any{"copy:ac3", "av_aac"},
		"subtitle_languages": "eng",
		"crop":               "auto",
		"decomb":             false,
		"denoise":            "off",
		"lapsharp":           "medium",
		"chapter_markers":    true,
		"container":          "av_mkv",
		"align_av":           false,
	}

	got := encoder.BuildArgs("/scratch/in.mkv", "/scratch/out.mkv", profile, nil)
	want := []string{
		"-i", "/scratch/in.mkv", "-o", "/scratch/out.mkv",
		"-e", "x265",
		"-q", "22",
		"--pfr",
		"-X", "1920",
		"-E", "copy:ac3,av_aac",
		"--subtitle-lang-list", "eng",
		"--crop", "auto",
		"--no-decomb",
		"--lapsharp", "medium",
		"--markers",
		"-f", "av_mkv",
		"--no-align-av",
		"--all-subtitles",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args:\n got %v\nwant %v", got, want)
	}
}

func TestBuildArgsAlwaysStartsWithPathsAndEndsWithSubtitles(t *testing.T) {
	got := encoder.BuildArgs("/a", "/b", encoder.Profile{}, nil)
	want := []string{"-i", "/a", "-o", "/b", "--all-subtitles"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected args for empty profile: %v", got)
	}
}

func TestBuildArgsZeroDimensionsOmitted(t *testing.T) {
	got := encoder.BuildArgs("/a", "/b", encoder.Profile{"max_width": int64(0), "max_height": int64(0)}, nil)
	for _, token := range got {
		if token == "-X" || token == "-Y" {
			t.Fatalf("zero dimension emitted a flag: %v", got)
		}
	}
}

func TestBuildArgsOffSentinelSuppressed(t *testing.T) {
	got := encoder.BuildArgs("/a", "/b", encoder.Profile{"denoise": "off"}, nil)
	for _, token := range got {
		if token == "--denoise" {
			t.Fatalf("off filter emitted a flag: %v", got)
		}
	}

	got = encoder.BuildArgs("/a", "/b", encoder.Profile{"denoise": "nlmeans"}, nil)
	found := false
	for i, token := range got {
		if token == "--denoise" && i+1 < len(got) && got[i+1] == "nlmeans" {
			found = true
		}
	}
	if !found {
		t.Fatalf("active denoise filter missing: %v", got)
	}
}

func TestBuildArgsBooleanPair(t *testing.T) {
	onArgs := encoder.BuildArgs("/a", "/b", encoder.Profile{"peak_framerate": true}, nil)
	offArgs := encoder.BuildArgs("/a", "/b", encoder.Profile{"peak_framerate": false}, nil)
	if !contains(onArgs, "--pfr") || contains(onArgs, "--cfr") {
		t.Fatalf("true should emit --pfr only: %v", onArgs)
	}
	if !contains(offArgs, "--cfr") || contains(offArgs, "--pfr") {
		t.Fatalf("false should emit --cfr only: %v", offArgs)
	}
}

func TestBuildArgsUnknownKeyWarnsWithoutChangingTokens(t *testing.T) {
	base := encoder.BuildArgs("/a", "/b", encoder.Profile{"encoder": "x264"}, nil)

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	withUnknown := encoder.BuildArgs("/a", "/b", encoder.Profile{"encoder": "x264", "turbo_mode": true}, logger)

	if !reflect.DeepEqual(base, withUnknown) {
		t.Fatalf("unknown key changed tokens:\n base %v\n with %v", base, withUnknown)
	}
	if !bytes.Contains(buf.Bytes(), []byte("turbo_mode")) {
		t.Fatalf("expected warning for unknown key, log: %s", buf.String())
	}
}

func TestBuildArgsDeterministic(t *testing.T) {
	profile := encoder.Profile{
		"container":      "av_mkv",
		"encoder":        "x265",
		"quality":        int64(20),
		"peak_framerate": false,
		"max_width":      int64(1280),
	}
	first := encoder.BuildArgs("/a", "/b", profile, nil)
	for i := 0; i < 10; i++ {
		if next := encoder.BuildArgs("/a", "/b", profile, nil); !reflect.DeepEqual(first, next) {
			t.Fatalf("args differ between calls:\n%v\n%v", first, next)
		}
	}
}

func contains(tokens []string, want string) bool {
	for _, token := range tokens {
		if token == want {
			return true
		}
	}
	return false
}
