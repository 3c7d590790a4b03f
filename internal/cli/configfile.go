package cli

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// ConfigPath returns the config file location: REGEXAPPLY_CONFIG_PATH, or
// ~/.regexapply. It returns "" when neither can be determined.
func ConfigPath() string {
	if path := os.Getenv("REGEXAPPLY_CONFIG_PATH"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".regexapply")
}

// LoadConfigArgs reads default arguments from the config file. They are
// meant to be placed before the command line so explicit flags win.
// Returns nil if no config file is found.
func LoadConfigArgs() []string {
	path := ConfigPath()
	if path == "" {
		return nil
	}
	args, err := readArgsFile(path)
	if err != nil {
		return nil
	}
	return args
}

// readArgsFile parses one flag per line. "#" starts a comment line and
// blank lines are ignored. A line "--flag value" yields two arguments, the
// value keeping its inner spaces.
func readArgsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var args []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "-") && !strings.Contains(line, "=") {
			if flag, value, ok := strings.Cut(line, " "); ok {
				args = append(args, flag, strings.TrimSpace(value))
				continue
			}
		}
		args = append(args, line)
	}
	return args, scanner.Err()
}
