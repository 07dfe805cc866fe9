// Package service holds the catalog server's business operations.
// Every operation that depends on who is asking takes a domain.Identity argument.
package service

import (
	"github.com/listenupapp/catalog-server/internal/domain"
	domainerrors "github.com/listenupapp/catalog-server/internal/errors"
)

// User-facing messages shared between the service and API layers.
const (
	MsgAuthenticationRequired = "Authentication required"
	MsgPrivilegedRequired     = "Access denied. Privileged role required."
	MsgInvalidCredentials     = "Invalid credentials"
	MsgEmailTaken             = "This email is already registered"
	MsgItemNotFound           = "Item not found"
	MsgUserNotFound           = "User not found"
	MsgNoFieldsToUpdate       = "No fields to update"
	MsgAlreadyReviewed        = "You have already reviewed this item"
	MsgReviewNotFound         = "Review not found"
	MsgEditOwnReviews         = "You can only edit your own reviews"
	MsgDeleteOwnReviews       = "You can only delete your own reviews"
	MsgAlreadySaved           = "Item already in saved list"
	MsgNotSaved               = "Not found in saved list"
)

// requireAuthenticated fails unless actor is signed in.
func requireAuthenticated(actor domain.Identity) error {
	if !actor.IsAuthenticated() {
		return domainerrors.Unauthorized(MsgAuthenticationRequired)
	}
	return nil
}

// requirePrivileged fails unless actor is signed in with the privileged role.
func requirePrivileged(actor domain.Identity) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	if !actor.IsPrivileged() {
		return domainerrors.Forbidden(MsgPrivilegedRequired)
	}
	return nil
}
