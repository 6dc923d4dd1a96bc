package entity

type User struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	CreatedAt *string `json:"createdAt"`
}

// NewUser is the creation payload; both fields are required.
type NewUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserPatch is a partial update. A nil field is left unchanged; there is no
// way to clear a field to null through a patch.
type UserPatch struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

/*
SQLite Schema (see migrations.AutoMigrateUsers):

CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
*/
