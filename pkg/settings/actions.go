package settings

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/arthur-debert/termcwd/pkg/errors"
	"github.com/arthur-debert/termcwd/pkg/logging"
	"github.com/arthur-debert/termcwd/pkg/types"
)

// SplitModeSentinel is the command attribute value that makes the
// terminal reuse the originating pane's reported directory.
const SplitModeSentinel = "duplicate"

// ActionIDPrefix namespaces synthesized action identifiers away from
// the terminal's built-in ones.
const ActionIDPrefix = "User.termcwd."

// DesiredActions returns the fixed set of keybinding/command pairs
// termcwd reconciles: split horizontal, split vertical, duplicate tab.
func DesiredActions() []types.DesiredAction {
	return []types.DesiredAction{
		{
			Keys:              "alt+shift+-",
			CommandJSON:       `{"action":"splitPane","split":"horizontal","splitMode":"duplicate"}`,
			RequiresSplitMode: true,
		},
		{
			Keys:              "alt+shift+plus",
			CommandJSON:       `{"action":"splitPane","split":"vertical","splitMode":"duplicate"}`,
			RequiresSplitMode: true,
		},
		{
			Keys:        "ctrl+shift+d",
			CommandJSON: `{"action":"duplicateTab"}`,
		},
	}
}

// ReconcileActions brings every desired action into the document,
// using whichever schema the document carries. Returns how many
// entries were added or updated.
func (d *Document) ReconcileActions(desired []types.DesiredAction) (int, error) {
	changed := 0
	for _, want := range desired {
		var (
			did bool
			err error
		)
		if d.schema == splitSchema {
			did, err = d.reconcileSplit(want)
		} else {
			did, err = d.reconcileCombined(want)
		}
		if err != nil {
			return changed, err
		}
		if did {
			changed++
		}
	}
	return changed, nil
}

// reconcileCombined handles the shape where each actions entry embeds
// both the trigger keys and the command. Only the first entry matching
// the trigger keys is considered; duplicates are left as-is.
func (d *Document) reconcileCombined(want types.DesiredAction) (bool, error) {
	logger := logging.GetLogger("settings")

	idx := -1
	for i, entry := range gjson.Get(d.raw, "actions").Array() {
		if entry.Get("keys").String() == want.Keys {
			idx = i
			break
		}
	}

	if idx < 0 {
		entry := fmt.Sprintf(`{"command":%s,"keys":%q}`, want.CommandJSON, want.Keys)
		out, err := sjson.SetRaw(d.raw, "actions.-1", entry)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot append action for %s", want.Keys)
		}
		d.raw = out
		logger.Info().Str("keys", want.Keys).Msg("action added")
		return true, nil
	}

	existing := gjson.Get(d.raw, fmt.Sprintf("actions.%d.command", idx))
	if commandEqual(existing, want.CommandJSON) {
		return false, nil
	}
	if want.RequiresSplitMode && existing.Get("splitMode").String() != SplitModeSentinel {
		out, err := sjson.SetRaw(d.raw, fmt.Sprintf("actions.%d.command", idx), want.CommandJSON)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot update action for %s", want.Keys)
		}
		d.raw = out
		logger.Info().Str("keys", want.Keys).Msg("action command updated")
		return true, nil
	}
	return false, nil
}

// reconcileSplit handles the shape with a keybindings array referencing
// actions by identifier. The first matching keybinding wins; the
// referenced action's command is overwritten in place so its id and
// any other metadata survive.
func (d *Document) reconcileSplit(want types.DesiredAction) (bool, error) {
	logger := logging.GetLogger("settings")

	var boundID string
	for _, kb := range gjson.Get(d.raw, "keybindings").Array() {
		if kb.Get("keys").String() == want.Keys {
			boundID = kb.Get("id").String()
			break
		}
	}

	if boundID == "" {
		id := synthesizeActionID(want.Keys)
		action := fmt.Sprintf(`{"command":%s,"id":%q}`, want.CommandJSON, id)
		out, err := sjson.SetRaw(d.raw, "actions.-1", action)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot append action for %s", want.Keys)
		}
		binding := fmt.Sprintf(`{"keys":%q,"id":%q}`, want.Keys, id)
		out, err = sjson.SetRaw(out, "keybindings.-1", binding)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot append keybinding for %s", want.Keys)
		}
		d.raw = out
		logger.Info().Str("keys", want.Keys).Str("id", id).Msg("action and keybinding added")
		return true, nil
	}

	actionIdx := -1
	for i, act := range gjson.Get(d.raw, "actions").Array() {
		if act.Get("id").String() == boundID {
			actionIdx = i
			break
		}
	}

	if actionIdx < 0 {
		// Dangling keybinding: give its id an action so the binding works.
		action := fmt.Sprintf(`{"command":%s,"id":%q}`, want.CommandJSON, boundID)
		out, err := sjson.SetRaw(d.raw, "actions.-1", action)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot append action %s", boundID)
		}
		d.raw = out
		logger.Info().Str("keys", want.Keys).Str("id", boundID).Msg("action added for dangling keybinding")
		return true, nil
	}

	existing := gjson.Get(d.raw, fmt.Sprintf("actions.%d.command", actionIdx))
	if commandEqual(existing, want.CommandJSON) {
		return false, nil
	}
	if want.RequiresSplitMode && existing.Get("splitMode").String() != SplitModeSentinel {
		out, err := sjson.SetRaw(d.raw, fmt.Sprintf("actions.%d.command", actionIdx), want.CommandJSON)
		if err != nil {
			return false, errors.Wrapf(err, errors.ErrSettingsWrite, "cannot update action %s", boundID)
		}
		d.raw = out
		logger.Info().Str("keys", want.Keys).Str("id", boundID).Msg("action command updated")
		return true, nil
	}
	return false, nil
}

// synthesizeActionID derives a deterministic identifier from the
// trigger keys, stripping the '+' separators.
func synthesizeActionID(keys string) string {
	return ActionIDPrefix + strings.ReplaceAll(keys, "+", "")
}

// commandEqual compares an existing command against the desired raw
// JSON, structurally rather than textually.
func commandEqual(existing gjson.Result, desiredJSON string) bool {
	if !existing.Exists() {
		return false
	}
	return reflect.DeepEqual(existing.Value(), gjson.Parse(desiredJSON).Value())
}
