// Package shell emits the shell integration scripts. The hook is
// activated with eval "$(recall init zsh)" and reports every command
// back through the hidden log subcommand.
package shell

import (
	"fmt"
	"io"
	"os"
)

// zshHook is the integration script template. %[1]s is the absolute
// path to the running binary, embedded so the hook works even when
// recall is not on PATH.
const zshHook = `__recall_preexec() {
    export __RECALL_CMD="$1"
    export __RECALL_START=$(($(date +%%s%%N) / 1000000))
    export __RECALL_OUTPUT_FILE=$(mktemp /tmp/recall_output.XXXXXX)
    # Remember where this command starts in the typescript file
    if [[ -n "$__RECALL_TYPESCRIPT" && -f "$__RECALL_TYPESCRIPT" ]]; then
        export __RECALL_TS_POS=$(command wc -c < "$__RECALL_TYPESCRIPT" | tr -d ' ')
    fi
}

__recall_precmd() {
    local exit_code=$?
    if [ -n "$__RECALL_CMD" ]; then
        # Slice this command's output out of the typescript file
        if [[ -n "$__RECALL_TYPESCRIPT" && -n "$__RECALL_TS_POS" && -f "$__RECALL_TYPESCRIPT" ]]; then
            tail -c +$((__RECALL_TS_POS + 1)) "$__RECALL_TYPESCRIPT" > "$__RECALL_OUTPUT_FILE" 2>/dev/null
        fi
        "%[1]s" log \
            --command "$__RECALL_CMD" \
            --exit-code $exit_code \
            --start "$__RECALL_START" \
            --cwd "$PWD" \
            --session "$RECALL_SESSION_ID" \
            --terminal "${TERM_PROGRAM:-${TERMINAL_EMULATOR:-${LC_TERMINAL:-Terminal}}}" \
            --output-file "$__RECALL_OUTPUT_FILE" &!
        unset __RECALL_CMD
    fi
}

export RECALL_SESSION_ID=$("%[1]s" session-id)
autoload -Uz add-zsh-hook
add-zsh-hook preexec __recall_preexec
add-zsh-hook precmd __recall_precmd

# Run the shell under script(1) so output goes through a PTY and keeps
# its colors; the hook slices per-command output out of the typescript.
if [[ -z "$__RECALL_TYPESCRIPT" ]]; then
    export __RECALL_TYPESCRIPT=$(mktemp /tmp/recall_typescript.XXXXXX)
    SHELL=$(command -v zsh) exec script -q "$__RECALL_TYPESCRIPT"
fi
`

// PrintZshHook writes the zsh integration script to w.
func PrintZshHook(w io.Writer) {
	bin, err := os.Executable()
	if err != nil {
		bin = "recall"
	}
	fmt.Fprintf(w, zshHook, bin)
}
