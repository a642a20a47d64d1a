// Package access decides which principals may see which uploaded files.
package access

import "github.com/JaineelPandya/social-book/internal/schemas"

// CanView reports whether principal may view item. A nil principal is an anonymous visitor.
// Owners always see their own items, regardless of visibility and active state.
func CanView(principal *schemas.User, item *schemas.ContentItem) bool {
	if item == nil {
		return false
	}
	if IsOwner(principal, item) {
		return true
	}

	switch item.Visibility {
	case schemas.VisibilityPublic:
		return true
	case schemas.VisibilityFollowers:
		return FollowersMayView(principal, item)
	default:
		return false
	}
}

// IsOwner reports whether principal owns item.
func IsOwner(principal *schemas.User, item *schemas.ContentItem) bool {
	return principal != nil && item != nil && principal.ID == item.OwnerID
}

// FollowersMayView decides followers-only items for non-owners. There is no follow relation yet,
// so nobody but the owner qualifies.
func FollowersMayView(principal *schemas.User, item *schemas.ContentItem) bool {
	return false
}
