package config

import (
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// LOCATOR MAP
// =============================================================================
//
// The upload stage never hardcodes a selector. Every element it touches is
// looked up by capability name in this table, so a markup change on the
// target site is fixed in settings.yaml instead of in code.
//
// Selectors starting with "/" or "(" are XPath; anything else is CSS.
//
// =============================================================================

// Capability names understood by the upload stage.
const (
	LocUsername      = "username"
	LocPassword      = "password"
	LocLoginButton   = "login_button"
	LocLoginSuccess  = "login_success"
	LocMenuLevel1    = "menu_level1"
	LocMenuLevel2    = "menu_level2"
	LocMenuLevel3    = "menu_level3"
	LocOpenUpload    = "open_upload"
	LocFileInput     = "file_input"
	LocSubmitUpload  = "submit_upload"
	LocConfirmDialog = "confirm_dialog"
	LocConfirmButton = "confirm_button"
	LocResultMessage = "result_message"
)

// optionalLocators may be left empty.
var optionalLocators = map[string]bool{
	LocLoginSuccess: true,
}

// Locators maps a capability name to a selector.
type Locators map[string]string

// DefaultLocators returns the selectors of the inventory site the tool was
// built against.
func DefaultLocators() Locators {
	return Locators{
		LocUsername:      `//*[@id="username"]`,
		LocPassword:      `//*[@id="password"]`,
		LocLoginButton:   `//*[@id="fm1"]/fieldset/div[3]/input[3]`,
		LocLoginSuccess:  "",
		LocMenuLevel1:    `//*[@id="1257"]/a`,
		LocMenuLevel2:    `//*[@id="child_1264"]`,
		LocMenuLevel3:    `//*[@id="child_Child_1267"]`,
		LocOpenUpload:    `//*[@id="btnInputFile_"]`,
		LocFileInput:     `//*[@id="excelFileStockUpdate"]`,
		LocSubmitUpload:  `//*[@id="grpImport_dlg"]/div/div[4]/button[1]`,
		LocConfirmDialog: `//div[contains(@class, 'messager-window')]`,
		LocConfirmButton: `//html/body/div[35]/div[2]/div[4]/a[1]/span/span`,
		LocResultMessage: `//p[@id='errExcelMsgStockUpdate']`,
	}
}

// withDefaults returns a copy of l with every missing capability filled in
// from DefaultLocators.
func (l Locators) withDefaults() Locators {
	merged := DefaultLocators()
	for name, selector := range l {
		merged[name] = selector
	}
	return merged
}

// Validate checks that every required capability has a selector and that no
// unknown capability is configured.
func (l Locators) Validate() error {
	known := DefaultLocators()

	var unknown, missing []string
	for name := range l {
		if _, ok := known[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	for name := range known {
		if optionalLocators[name] {
			continue
		}
		if strings.TrimSpace(l[name]) == "" {
			missing = append(missing, name)
		}
	}

	sort.Strings(unknown)
	sort.Strings(missing)

	if len(unknown) > 0 {
		return fmt.Errorf("unknown locators: %s", strings.Join(unknown, ", "))
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing locators: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Get returns the selector for a capability, or an error naming it.
func (l Locators) Get(name string) (string, error) {
	selector := strings.TrimSpace(l[name])
	if selector == "" {
		return "", fmt.Errorf("no locator configured for %q", name)
	}
	return selector, nil
}

// IsXPath reports whether a selector should be evaluated as XPath.
func IsXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}
