// Package flagx helps several flag sets share one command line: each
// consumer picks out only the flags it owns before parsing.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args that belongs to allowedFlags. Every
// allowed flag is assumed to take a value, given either as "-f value" or as
// "-f=value".
func FilterArgs(args []string, allowedFlags []string) []string {
	return Filter(args, allowedFlags, nil)
}

// Filter is FilterArgs with support for boolean flags. A boolean flag never
// consumes the following argument, so "-r file.txt" keeps "file.txt" out of
// the result; use "-r=false" to switch one off.
func Filter(args []string, valueFlags, boolFlags []string) []string {
	valued := toSet(valueFlags)
	bools := toSet(boolFlags)

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, known := valued[name]; known {
				filtered = append(filtered, arg)
			} else if _, known := bools[name]; known {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, known := bools[arg]; known {
			filtered = append(filtered, arg)
			continue
		}

		if _, known := valued[arg]; !known {
			continue
		}

		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// Other arguments are ignored. When the flag appears several times the last
// one wins; an empty string means no config file was requested.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
