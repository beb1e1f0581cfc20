// Package flagx lets each config loader parse only the command-line flags it
// owns, so the JSON/env/flag layers do not trip over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs keeps only the allowed flags (and their values) from args.
//
// Both "-c conf.json" and "--config=conf.json" forms are recognised. A
// value that itself starts with '-' is treated as the next flag, not a value.
// The result is never nil.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// Sources are the optional config files named on the command line.
type Sources struct {
	// JSON is the path given with -c / -config.
	JSON string
	// Env is the dotenv file given with -env.
	Env string
}

// ConfigSources extracts -c/-config and -env from os.Args, ignoring
// everything else.
func ConfigSources() Sources {
	var src Sources

	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "-env"})

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.StringVar(&src.JSON, "config", "", "Path to config file")
	fs.StringVar(&src.JSON, "c", "", "Path to config file (short)")
	fs.StringVar(&src.Env, "env", "", "Path to .env file")
	_ = fs.Parse(args)

	return src
}

// JsonConfigFlags returns the JSON config path or "" when none was given.
func JsonConfigFlags() string {
	return ConfigSources().JSON
}
