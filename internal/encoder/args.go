package encoder

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"squeeze/internal/logging"
)

// Profile is the declarative encoding profile from configuration. Keys map
// to encoder command-line tokens through a fixed dispatch table; unknown
// keys are logged as warnings and emit nothing.
type Profile map[string]any

// offSentinel suppresses a filter flag entirely.
const offSentinel = "off"

type settingRule struct {
	key  string
	emit func(value any) []string
}

// settingRules is the fixed key-to-token table, in emission order. Iterating
// a fixed table rather than the map keeps the argument list deterministic
// for a given profile.
var settingRules = []settingRule{
	{"encoder", valueFlag("-e")},
	{"quality", valueFlag("-q")},
	{"peak_framerate", boolFlags("--pfr", "--cfr")},
	{"max_width", dimensionFlag("-X")},
	{"max_height", dimensionFlag("-Y")},
	{"audio_encoders", listFlag("-E")},
	{"subtitle_languages", valueFlag("--subtitle-lang-list")},
	{"crop", valueFlag("--crop")},
	{"decomb", boolFlags("--decomb", "--no-decomb")},
	{"detelecine", boolFlags("--detelecine", "--no-detelecine")},
	{"deinterlace", boolFlags("--deinterlace", "--no-deinterlace")},
	{"denoise", filterFlag("--denoise")},
	{"lapsharp", filterFlag("--lapsharp")},
	{"chapter_markers", boolFlags("--markers", "--no-markers")},
	{"container", valueFlag("-f")},
	{"align_av", boolFlags("--align-av", "--no-align-av")},
}

// BuildArgs maps a profile into the ordered argument list for the external
// encoder. The list always begins with the input/output pair and always ends
// with the directive that includes all subtitle tracks, regardless of
// profile content.
func BuildArgs(inputPath, outputPath string, profile Profile, logger *slog.Logger) []string {
	args := []string{"-i", inputPath, "-o", outputPath}

	for _, rule := range settingRules {
		value, ok := profile[rule.key]
		if !ok {
			continue
		}
		args = append(args, rule.emit(value)...)
	}

	for _, key := range unknownKeys(profile) {
		if logger != nil {
			logger.Warn("ignoring unrecognized profile setting", logging.String("setting", key))
		}
	}

	return append(args, "--all-subtitles")
}

func unknownKeys(profile Profile) []string {
	known := make(map[string]struct{}, len(settingRules))
	for _, rule := range settingRules {
		known[rule.key] = struct{}{}
	}
	var unknown []string
	for key := range profile {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return unknown
}

func valueFlag(flag string) func(any) []string {
	return func(value any) []string {
		s := stringify(value)
		if s == "" {
			return nil
		}
		return []string{flag, s}
	}
}

func boolFlags(whenTrue, whenFalse string) func(any) []string {
	return func(value any) []string {
		if asBool(value) {
			return []string{whenTrue}
		}
		return []string{whenFalse}
	}
}

func dimensionFlag(flag string) func(any) []string {
	return func(value any) []string {
		// A zero dimension limit means "no limit"; emitting the flag
		// would be a no-op at best, so it is omitted entirely.
		n := asInt(value)
		if n == 0 {
			return nil
		}
		return []string{flag, strconv.FormatInt(n, 10)}
	}
}

func listFlag(flag string) func(any) []string {
	return func(value any) []string {
		items := asStringList(value)
		if len(items) == 0 {
			return nil
		}
		return []string{flag, strings.Join(items, ",")}
	}
}

func filterFlag(flag string) func(any) []string {
	return func(value any) []string {
		s := stringify(value)
		if s == "" || strings.EqualFold(s, offSentinel) {
			return nil
		}
		return []string{flag, s}
	}
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func asBool(value any) bool {
	b, _ := value.(bool)
	return b
}

func asInt(value any) int64 {
	switch v := value.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return 0
	}
}

func asStringList(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s := stringify(item); s != "" {
				items = append(items, s)
			}
		}
		return items
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return []string{s}
		}
		return nil
	default:
		return nil
	}
}
