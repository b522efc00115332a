//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

// User is the admin view of an account.
type User struct {
	Email     string   `json:"email"`
	Username  string   `json:"username,omitempty"`
	Forename  string   `json:"forename"`
	Surname   string   `json:"surname"`
	Roles     []string `json:"roles,omitempty"`
	Activated bool     `json:"activated"`
}

// UserSearchType selects which user attribute a filter search term is matched against.
type UserSearchType string

const (
	SearchByEmail    UserSearchType = "email"
	SearchByForename UserSearchType = "forename"
	SearchBySurname  UserSearchType = "surname"
)

// UserFilter holds the admin user-list filter. Empty fields are sent as empty
// strings, which the backend treats as "any".
type UserFilter struct {
	Permission string
	Activated  string
	SearchType UserSearchType
	Search     string
}
