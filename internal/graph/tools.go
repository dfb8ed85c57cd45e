package graph

import "strings"

// knownTools is the curated vocabulary of common CLI program names.
// Recognized tools surface at >=3 uses; anything else needs >=5 uses,
// which suppresses one-off typos and scratch script names.
var knownTools = map[string]struct{}{}

func init() {
	for _, name := range []string{
		"git", "cargo", "docker", "npm", "npx", "pnpm", "yarn", "bun", "node", "python",
		"python3", "pip", "pip3", "make", "cmake", "gcc", "g++", "clang", "rustc", "rustup",
		"go", "java", "javac", "mvn", "gradle", "ruby", "gem", "bundle", "rails", "php",
		"composer", "swift", "xcodebuild", "kubectl", "terraform", "ansible", "vagrant",
		"brew", "apt", "yum", "pacman", "ssh", "scp", "rsync", "curl", "wget", "grep",
		"find", "sed", "awk", "cat", "less", "vim", "nvim", "nano", "emacs", "code",
		"tmux", "screen", "htop", "top", "ps", "kill", "systemctl", "journalctl",
		"tar", "zip", "unzip", "gzip", "ls", "cd", "cp", "mv", "rm", "mkdir", "chmod",
		"chown", "ln", "echo", "env", "export", "source", "eval", "deno", "tsx", "ts-node",
		"jest", "pytest", "rspec", "mocha", "vitest", "eslint", "prettier", "tsc",
		"podman", "nix", "just", "task", "watchexec", "ag", "rg", "fd", "bat", "exa",
		"jq", "yq", "helm", "skaffold", "minikube", "kind",
	} {
		knownTools[name] = struct{}{}
	}
}

const (
	knownToolMinUses   = 3
	unknownToolMinUses = 5
)

// extractTool returns the lower-cased basename of a command line's first
// whitespace-delimited token, or "" when there is none.
func extractTool(commandText string) string {
	fields := strings.Fields(commandText)
	if len(fields) == 0 {
		return ""
	}
	first := fields[0]
	if idx := strings.LastIndex(first, "/"); idx >= 0 {
		first = first[idx+1:]
	}
	return strings.ToLower(first)
}

// keepTool applies the asymmetric frequency threshold.
func keepTool(name string, uses int) bool {
	if _, ok := knownTools[name]; ok {
		return uses >= knownToolMinUses
	}
	return uses >= unknownToolMinUses
}
