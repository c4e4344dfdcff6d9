package domain

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrAccountArchived    = errors.New("account is archived")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrForbidden          = errors.New("access forbidden")

	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already in use")
	ErrPhoneTaken             = errors.New("phone number already in use")
	ErrAccountNumberTaken     = errors.New("account number already in use")
	ErrAccountNumberExhausted = errors.New("could not allocate a unique account number")

	ErrOldPasswordMismatch = errors.New("old password is incorrect")
	ErrPasswordUnchanged   = errors.New("new password must differ from the old one")

	ErrTransactionExists         = errors.New("transaction already exists")
	ErrTransactionNotCancellable = errors.New("transaction not found or already cancelled")
)
