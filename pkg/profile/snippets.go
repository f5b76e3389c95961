package profile

import "strings"

// Snippet markers. Everything between a begin and end marker pair is
// owned by termcwd and replaced wholesale on upgrade.
const (
	snippetBeginPrefix = "# >>> termcwd "
	snippetBeginSuffix = " >>>"
	snippetEndPrefix   = "# <<< termcwd "
	snippetEndSuffix   = " <<<"
)

// Snippet names.
const (
	SnippetOscPrompt     = "osc-prompt"
	SnippetCopilotHelper = "copilot-helper"
)

// oscPromptSnippet wraps the active prompt function and appends an
// OSC 9;9 sequence reporting the current filesystem directory to the
// hosting terminal. Used as a fallback when no theme document can
// carry the pwd attribute.
const oscPromptSnippet = `$global:__termcwdPrompt = $function:prompt
function global:prompt {
    $out = & $global:__termcwdPrompt
    $loc = $executionContext.SessionState.Path.CurrentLocation
    if ($loc.Provider.Name -eq "FileSystem") {
        $out += "$([char]27)]9;9;$([char]34)$($loc.ProviderPath)$([char]34)$([char]27)\"
    }
    $out
}`

// copilotHelperSnippet adds a small helper for GitHub Copilot CLI
// suggestions. Installed only behind the profile.copilot flag.
const copilotHelperSnippet = `function ghcs {
    param(
        [ValidateSet("shell", "git", "gh")]
        [string]$Target = "shell",
        [Parameter(ValueFromRemainingArguments)]
        [string[]]$Prompt
    )
    gh copilot suggest -t $Target ($Prompt -join " ")
}`

func snippetBody(name string) string {
	switch name {
	case SnippetOscPrompt:
		return oscPromptSnippet
	case SnippetCopilotHelper:
		return copilotHelperSnippet
	default:
		return ""
	}
}

func beginMarker(name string) string {
	return snippetBeginPrefix + name + snippetBeginSuffix
}

func endMarker(name string) string {
	return snippetEndPrefix + name + snippetEndSuffix
}

// ensureSnippet appends the named snippet gated by its markers. When
// the begin marker is already present the content is returned
// unchanged, so repeated runs insert nothing.
func ensureSnippet(content, name string) (string, bool) {
	body := snippetBody(name)
	if body == "" {
		return content, false
	}
	if strings.Contains(content, beginMarker(name)) {
		return content, false
	}

	block := beginMarker(name) + "\n" + body + "\n" + endMarker(name) + "\n"
	switch {
	case content == "":
		return block, true
	case strings.HasSuffix(content, "\n"):
		return content + "\n" + block, true
	default:
		return content + "\n\n" + block, true
	}
}
