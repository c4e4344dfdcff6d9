package domain

import "time"

const (
	RoleClient       = "client"
	RoleDistributeur = "distributeur"
	RoleAgent        = "agent"
)

// SelfServiceRoles are the roles a user record may be created with through the
// public registration endpoint. Agents are provisioned out of band.
var SelfServiceRoles = []string{RoleClient, RoleDistributeur}

// AccountNumberLength is the number of digits in a generated account number.
const AccountNumberLength = 10

// User models a bank customer, distributor or agent.
type User struct {
	ID           string     `json:"_id"`
	Nom          string     `json:"nom"`
	Prenom       string     `json:"prenom"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	NumCompte    string     `json:"numCompte,omitempty"`
	NumTel       string     `json:"numTel,omitempty"`
	Photo        string     `json:"photo,omitempty"`
	Bloquer      bool       `json:"bloquer"`
	Archived     bool       `json:"archived"`
	ArchivedAt   *time.Time `json:"archivedAt,omitempty"`
	DateCreation time.Time  `json:"dateCreation"`
	UpdateDate   time.Time  `json:"updatedate"`
}

// IsSelfServiceRole reports whether role may be assigned at registration.
func IsSelfServiceRole(role string) bool {
	for _, r := range SelfServiceRoles {
		if r == role {
			return true
		}
	}
	return false
}

// ProfileUpdate carries the fields of a profile edit. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Nom    string
	Prenom string
	Email  string
	NumTel *string
	Photo  *string
}
