package docstore

import "strings"

// OwnerPlaceholder is substituted with the owner identifier when a path
// template is resolved.
const OwnerPlaceholder = "{owner}"

// ResolvePath substitutes the owner placeholder in a path template,
// e.g. "users/{owner}/lists" with owner "u1" becomes "users/u1/lists".
func ResolvePath(template, owner string) string {
	return strings.ReplaceAll(template, OwnerPlaceholder, owner)
}
