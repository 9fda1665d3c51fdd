package envfile

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Format identifies how an environment source file is laid out.
type Format string

const (
	FormatDotEnv  Format = "env"
	FormatEnvrc   Format = "envrc"
	FormatCompose Format = "docker-compose"
	FormatK8s     Format = "k8s"
	FormatSystemd Format = "systemd"
	FormatShell   Format = "shell"
)

// Detect determines the format of an environment file from its name.
// Unknown names are treated as dotenv files.
func Detect(path string) Format {
	name := filepath.Base(path)
	ext := filepath.Ext(name)

	switch {
	case name == ".envrc":
		return FormatEnvrc
	case strings.HasPrefix(name, ".env"):
		return FormatDotEnv
	case strings.HasPrefix(name, "docker-compose.") || strings.HasPrefix(name, "compose."):
		return FormatCompose
	case (ext == ".yaml" || ext == ".yml") &&
		(strings.Contains(name, "configmap") || strings.Contains(name, "secret")):
		return FormatK8s
	case ext == ".service":
		return FormatSystemd
	case ext == ".sh" || ext == ".bash":
		return FormatShell
	}
	return FormatDotEnv
}

// Parse reads variables from r in the given format.
func Parse(format Format, r io.Reader) (map[string]string, error) {
	switch format {
	case FormatEnvrc, FormatShell:
		return parseExports(r)
	case FormatCompose:
		return parseCompose(r)
	case FormatK8s:
		return parseK8s(r)
	case FormatSystemd:
		return parseSystemd(r)
	default:
		return godotenv.Parse(r)
	}
}

var exportRegex = regexp.MustCompile(`^\s*export\s+([A-Za-z_][A-Za-z0-9_]*)\s*=\s*(.*)$`)

// parseExports collects `export VAR=value` lines from direnv files and
// shell scripts; every other line is ignored.
func parseExports(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if m := exportRegex.FindStringSubmatch(line); m != nil {
			vars[m[1]] = trimQuotes(m[2])
		}
	}
	return vars, sc.Err()
}

var systemdRegex = regexp.MustCompile(`^\s*Environment\s*=\s*(.+)$`)

// parseSystemd reads Environment= lines of a unit file. A line may set
// several space separated assignments.
func parseSystemd(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := systemdRegex.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		for _, assignment := range splitAssignments(m[1]) {
			key, value, ok := strings.Cut(trimQuotes(assignment), "=")
			if ok && strings.TrimSpace(key) != "" {
				vars[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		}
	}
	return vars, sc.Err()
}

// splitAssignments splits on spaces outside of double quotes.
func splitAssignments(s string) []string {
	var out []string
	var cur strings.Builder
	quoted := false
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			cur.WriteRune(r)
		case r == ' ' && !quoted:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

type composeFile struct {
	Services map[string]struct {
		Environment yaml.Node `yaml:"environment"`
	} `yaml:"services"`
}

// parseCompose merges the environment sections of every service. Both
// the mapping and the list form are accepted.
func parseCompose(r io.Reader) (map[string]string, error) {
	var doc composeFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode compose file: %w", err)
	}

	vars := make(map[string]string)
	for name, svc := range doc.Services {
		switch svc.Environment.Kind {
		case 0:
		case yaml.MappingNode:
			var env map[string]any
			if err := svc.Environment.Decode(&env); err != nil {
				return nil, fmt.Errorf("service %s: %w", name, err)
			}
			for k, v := range env {
				if v == nil {
					vars[k] = ""
					continue
				}
				vars[k] = fmt.Sprint(v)
			}
		case yaml.SequenceNode:
			var env []string
			if err := svc.Environment.Decode(&env); err != nil {
				return nil, fmt.Errorf("service %s: %w", name, err)
			}
			for _, item := range env {
				k, v, _ := strings.Cut(item, "=")
				vars[strings.TrimSpace(k)] = strings.TrimSpace(v)
			}
		default:
			return nil, fmt.Errorf("service %s: environment must be a mapping or a list", name)
		}
	}
	return vars, nil
}

type k8sObject struct {
	Kind       string            `yaml:"kind"`
	Data       map[string]string `yaml:"data"`
	StringData map[string]string `yaml:"stringData"`
}

// parseK8s reads ConfigMap data and Secret data/stringData. Secret data
// is base64 decoded; values that fail to decode are kept verbatim.
func parseK8s(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	dec := yaml.NewDecoder(r)
	for {
		var obj k8sObject
		err := dec.Decode(&obj)
		if err == io.EOF {
			return vars, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
		switch obj.Kind {
		case "ConfigMap":
			for k, v := range obj.Data {
				vars[k] = v
			}
		case "Secret":
			for k, v := range obj.Data {
				if decoded, err := base64.StdEncoding.DecodeString(v); err == nil {
					v = string(decoded)
				}
				vars[k] = v
			}
			for k, v := range obj.StringData {
				vars[k] = v
			}
		}
	}
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
