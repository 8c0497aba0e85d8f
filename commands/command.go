package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/splitsync/splitwise-app-sheets/config"
)

const APP = "splitwise-app-sheets"

type Options struct {
	Config string
	Debug  bool
}

type command struct {
	credentials string
}

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google service account 'credentials.json' file. Overrides the configuration file")

	return flagset
}

// unpack unpacks the context and global options passed to Execute by main().
func unpack(list ...any) (context.Context, *Options) {
	ctx := context.Background()
	options := &Options{
		Config: DEFAULT_CONFIG,
	}

	for _, v := range list {
		switch arg := v.(type) {
		case context.Context:
			ctx = arg
		case *Options:
			options = arg
		}
	}

	return ctx, options
}

// resolve returns the path for a file named in the configuration file, relative to the
// configuration file directory.
func resolve(config, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(filepath.Dir(config), path)
}

// googleCredentials returns the Google service account file for a command: the --credentials
// option, else the file named in the configuration file, else the default. A missing
// configuration file is not an error but an invalid one is.
func (c *command) googleCredentials(file string) (string, error) {
	if v := strings.TrimSpace(c.credentials); v != "" {
		return v, nil
	}

	if _, err := os.Stat(file); err != nil && errors.Is(err, fs.ErrNotExist) {
		return DEFAULT_CREDENTIALS, nil
	}

	conf, err := config.Load(file)
	if err != nil {
		return "", err
	}

	if v := resolve(file, conf.Google.Credentials); strings.TrimSpace(v) != "" {
		return v, nil
	}

	return DEFAULT_CREDENTIALS, nil
}

func spreadsheetID(url string) (string, error) {
	v := strings.TrimSpace(url)

	if match := regexp.MustCompile(`^https://docs.google.com/spreadsheets/d/(.*?)(?:/.*)?$`).FindStringSubmatch(v); len(match) > 1 {
		return match[1], nil
	}

	if regexp.MustCompile(`^[a-zA-Z0-9_-]+$`).MatchString(v) {
		return v, nil
	}

	return "", fmt.Errorf("invalid spreadsheet URL - expected something like 'https://docs.google.com/spreadsheets/d/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms'")
}

func helpOptions(flagset *flag.FlagSet) {
	count := 0
	flag.VisitAll(func(f *flag.Flag) {
		count++
	})

	flagset.VisitAll(func(f *flag.Flag) {
		fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
	})

	if count > 0 {
		fmt.Println()
		fmt.Println("  Options:")
		flag.VisitAll(func(f *flag.Flag) {
			fmt.Printf("    --%-13s %s\n", f.Name, f.Usage)
		})
	}
}
