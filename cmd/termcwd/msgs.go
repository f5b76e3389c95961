package main

// Short messages (one-liners)
const (
	MsgRootShort = "Make terminal split panes inherit the current directory"
	MsgRootLong  = `termcwd patches your PowerShell profile, your oh-my-posh theme and the
Windows Terminal settings so that new split panes and duplicated tabs
start in the directory of the pane they came from.

Every file it touches is backed up first, and running it again changes
nothing once everything is in place. Use --dry-run to preview.`

	MsgVersionShort    = "Print version information"
	MsgGenConfigShort  = "Print the default configuration file"
	MsgGenConfigLong   = "Print the default TOML configuration. Redirect it to $XDG_CONFIG_HOME/termcwd/config.toml and edit to customize."
	MsgDocsShort       = "Show extended documentation"
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun   = "Preview changes without writing anything"
	MsgFlagProfile  = "Path to the PowerShell profile (default: probed)"
	MsgFlagSettings = "Path to the terminal settings file (default: probed)"
	MsgFlagThemeDir = "User-writable theme directory override"
	MsgFlagCopilot  = "Also add the Copilot helper function to the profile"
	MsgFlagColor    = "Color output: auto, always or never"
)
