package handler

import "github.com/senbank/backoffice/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type loginRequest struct {
	Email      string `json:"email"      validate:"required"`
	MotDePasse string `json:"motDePasse" validate:"required"`
}

type loginResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *domain.User `json:"user"`
}

// --- Users ---

type createUserRequest struct {
	Nom        string `json:"nom"`
	Prenom     string `json:"prenom"`
	Email      string `json:"email"      validate:"omitempty,email"`
	MotDePasse string `json:"motDePasse"`
	Role       string `json:"role"`
	NumTel     string `json:"numTel"`
	NumCompte  string `json:"numCompte"`
	Photo      string `json:"photo"`
}

type createUserResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// updateUserRequest leaves numTel and photo untouched when they are absent.
type updateUserRequest struct {
	Nom    string  `json:"nom"`
	Prenom string  `json:"prenom"`
	Email  string  `json:"email"  validate:"omitempty,email"`
	NumTel *string `json:"numTel"`
	Photo  *string `json:"photo"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type idsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type blockRequest struct {
	IDs     []string `json:"ids"     validate:"required,min=1,dive,required"`
	Bloquer *bool    `json:"bloquer" validate:"required"`
}

type bulkResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
}

type usersResponse struct {
	Users []*domain.User `json:"users"`
}

// --- Transactions ---

// createTransactionRequest mirrors the ledger entry. dateTransaction accepts
// RFC 3339 as well as the shorter forms listed in dateLayouts.
type createTransactionRequest struct {
	IDTransaction         string  `json:"idTransaction"`
	Type                  string  `json:"type"`
	Montant               float64 `json:"montant"`
	NumCompteSource       string  `json:"numCompteSource"`
	NumCompteDestinataire string  `json:"numCompteDestinataire"`
	DateTransaction       string  `json:"dateTransaction"`
	Etat                  string  `json:"etat"`
}

type createTransactionResponse struct {
	Message       string `json:"message"`
	TransactionID string `json:"transactionId"`
	IDTransaction string `json:"idTransaction"`
}

type transactionsResponse struct {
	Transactions []*domain.Transaction `json:"transactions"`
}
