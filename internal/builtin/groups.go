// Package builtin defines the URL groups the application ships with.
// Seeded groups carry stable ids so the store's seed-if-absent step
// can recognize them across restarts.
package builtin

import "github.com/urlpick/urlpick/internal/domain"

// Microsoft365GroupID is the stable id of the seeded Microsoft 365 group.
const Microsoft365GroupID = "builtin-microsoft-365"

// Seeded returns the built-in groups in their shipped shape. They are
// seeded with no profiles; the user attaches a work profile to make
// them effective.
func Seeded() []domain.URLGroup {
	return []domain.URLGroup{
		newMicrosoft365Group(),
	}
}

// newMicrosoft365Group covers the common Microsoft 365 surface, so a
// single work profile can claim the whole suite at once.
func newMicrosoft365Group() domain.URLGroup {
	return domain.URLGroup{
		ID:          Microsoft365GroupID,
		Name:        "Microsoft 365",
		Description: "Office, Teams, Outlook, SharePoint and the Microsoft login flow",
		URLPatterns: []string{
			"*login.microsoftonline.com*",
			"*.office.com/*",
			"*.office365.com/*",
			"*.sharepoint.com/*",
			"*teams.microsoft.com*",
			"*outlook.office.com*",
			"*outlook.live.com*",
		},
		Behavior:  domain.UseDefault,
		IsEnabled: false, // the store seeds built-ins disabled; the user opts in
		IsBuiltIn: true,
	}
}
